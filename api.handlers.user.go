package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateUser godoc
//
//	@Summary		Register a new member
//	@Description	Creates a user record. An empty role defaults to the regular user role.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		User	true	"user details"
//	@Success		200		{object}	APIResponse
//	@Failure		400		{object}	APIError
//	@Failure		500		{object}	APIError
//	@Router			/v1/users [post]
func (api *APIHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	user := User{}
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	err := DecodeRequestBody(r, &user)
	if err != nil {
		api.logger.Error("failed to create user", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to create the user", user)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	err = ValidateCreateUserRequestBody(&user)
	if err != nil {
		api.logger.Error("failed to create user", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to create the user", err.Error())
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	user.ID = api.idsHandler.Generate(UserIDPrefix)
	user.BorrowedBooks = []string{}
	user.CreatedAt = api.clock.Now().UTC().String()
	user.UpdatedAt = api.clock.Now().UTC().String()

	err = api.userService.Add(r.Context(), user.ID, user)
	if err != nil {
		api.logger.Error("failed to create user", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to create the user", user)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to create user", zap.String("user.id", user.ID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "User created successfully.", nil, user)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetAllUsers godoc
//
//	@Summary	Fetch all registered members
//	@Tags		users
//	@Produce	json
//	@Success	200	{object}	APIResponse
//	@Failure	500	{object}	APIError
//	@Router		/v1/users [get]
func (api *APIHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	users, err := api.userService.GetAll(r.Context())
	if err != nil {
		api.logger.Error("failed to get all users", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to get all users", users)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to get all users", zap.String("request.id", requestID))
	total := len(users)
	resp := GenericResponse(requestID, http.StatusOK, "All users fetched successfully.", &total, users)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.Error(err))
	}
}

// GetOneUser godoc
//
//	@Summary	Fetch a single member by its id
//	@Tags		users
//	@Produce	json
//	@Param		id	path		string	true	"user id"
//	@Success	200	{object}	APIResponse
//	@Failure	404	{object}	APIError
//	@Failure	500	{object}	APIError
//	@Router		/v1/users/{id} [get]
func (api *APIHandler) GetOneUser(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := chi.URLParam(r, "id")
	user, err := api.userService.GetOne(r.Context(), id)
	if err == ErrUserNotFound {
		api.logger.Error("user does not exist", zap.String("user.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "user does not exist", user)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to get user", zap.String("user.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to get the user", user)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to get user", zap.String("user.id", id), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "User fetched successfully.", nil, user)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// UpdateUser godoc
//
//	@Summary		Update a member profile
//	@Description	Overlays name and role. The borrowed books list is never touched. Requires the acting user to carry the admin role.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"user id"
//	@Param			payload	body		UpdateUserRequest	true	"acting user id and fields to update"
//	@Success		200		{object}	APIResponse
//	@Failure		400		{object}	APIError
//	@Failure		403		{object}	APIError
//	@Failure		404		{object}	APIError
//	@Failure		500		{object}	APIError
//	@Router			/v1/users/{id} [patch]
func (api *APIHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	payload := UpdateUserRequest{}
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := chi.URLParam(r, "id")
	err := DecodeRequestBody(r, &payload)
	if err != nil {
		api.logger.Error("failed to update user", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to update the user", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	if !api.requireAdmin(w, r, payload.UserID) {
		return
	}

	if len(payload.User.Role) != 0 && payload.User.Role != RoleAdmin && payload.User.Role != RoleUser {
		api.logger.Error("failed to update user", zap.String("user.id", id), zap.String("request.id", requestID), zap.String("user.role", payload.User.Role))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "role must be either Admin or User", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	user, err := api.userService.Update(r.Context(), id, payload.User)
	if err == ErrUserNotFound {
		api.logger.Error("user does not exist", zap.String("user.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "user does not exist", user)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to update user", zap.String("user.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to update the user", user)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to update user", zap.String("user.id", id), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "User updated successfully.", nil, user)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// DeleteOneUser godoc
//
//	@Summary		Remove a member
//	@Description	Deletes the user and releases every book the user still holds. Requires the acting user to carry the admin role.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"user id"
//	@Param			payload	body		AdminActionRequest	true	"acting user id"
//	@Success		200		{object}	APIResponse
//	@Failure		403		{object}	APIError
//	@Failure		404		{object}	APIError
//	@Failure		500		{object}	APIError
//	@Router			/v1/users/{id} [delete]
func (api *APIHandler) DeleteOneUser(w http.ResponseWriter, r *http.Request) {
	payload := AdminActionRequest{}
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := chi.URLParam(r, "id")
	err := DecodeRequestBody(r, &payload)
	if err != nil {
		api.logger.Error("failed to delete user", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to delete the user", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	if !api.requireAdmin(w, r, payload.UserID) {
		return
	}

	err = api.userService.Delete(r.Context(), id)
	if err == ErrUserNotFound {
		api.logger.Error("user does not exist", zap.String("user.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "user does not exist", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to delete user", zap.String("user.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to delete the user", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to delete user", zap.String("user.id", id), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "User deleted successfully.", nil, EmptyData)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
