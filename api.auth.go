package main

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrNotAllowed means the acting user exists but lacks the required role.
var ErrNotAllowed = errors.New("user is not allowed to perform this action")

// Authorizer checks that the acting user carries the required role.
type Authorizer interface {
	Require(ctx context.Context, userID, role string) error
}

type roleAuthorizer struct {
	logger *zap.Logger
	users  UserStorage
}

func NewRoleAuthorizer(logger *zap.Logger, users UserStorage) Authorizer {
	return &roleAuthorizer{logger: logger, users: users}
}

// Require loads the acting user and compares its role. An unknown user id
// surfaces as ErrUserNotFound so callers can treat it as a denied request.
func (ra *roleAuthorizer) Require(ctx context.Context, userID, role string) error {
	user, err := ra.users.GetOne(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != role {
		ra.logger.Info("authorizer: denied action", zap.String("user.id", userID), zap.String("user.role", user.Role), zap.String("required.role", role))
		return ErrNotAllowed
	}
	return nil
}
