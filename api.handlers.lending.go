package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BorrowBook godoc
//
//	@Summary		Borrow a book
//	@Description	Hands the book over to the user when the copy is available.
//	@Tags			lending
//	@Produce		json
//	@Param			userId	path		string	true	"user id"
//	@Param			bookId	path		string	true	"book id"
//	@Success		200		{object}	APIResponse
//	@Failure		400		{object}	APIError
//	@Failure		404		{object}	APIError
//	@Failure		500		{object}	APIError
//	@Router			/v1/users/borrow/{userId}/{bookId} [patch]
func (api *APIHandler) BorrowBook(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	userID := chi.URLParam(r, "userId")
	bookID := chi.URLParam(r, "bookId")

	user, err := api.lendingService.Borrow(r.Context(), userID, bookID)
	if err != nil {
		api.metrics.RecordLending("borrow", "failure")
		api.writeLendingError(w, r, "borrow", userID, bookID, err)
		return
	}
	api.metrics.RecordLending("borrow", "success")
	api.logger.Info("success to borrow book", zap.String("user.id", userID), zap.String("book.id", bookID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Book borrowed successfully.", nil, user)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// ReturnBook godoc
//
//	@Summary		Return a book
//	@Description	Puts the book back on the shelf and pulls its id from the user borrowed list.
//	@Tags			lending
//	@Produce		json
//	@Param			userId	path		string	true	"user id"
//	@Param			bookId	path		string	true	"book id"
//	@Success		200		{object}	APIResponse
//	@Failure		404		{object}	APIError
//	@Failure		500		{object}	APIError
//	@Router			/v1/users/return/{userId}/{bookId} [patch]
func (api *APIHandler) ReturnBook(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	userID := chi.URLParam(r, "userId")
	bookID := chi.URLParam(r, "bookId")

	user, err := api.lendingService.Return(r.Context(), userID, bookID)
	if err != nil {
		api.metrics.RecordLending("return", "failure")
		api.writeLendingError(w, r, "return", userID, bookID, err)
		return
	}
	api.metrics.RecordLending("return", "success")
	api.logger.Info("success to return book", zap.String("user.id", userID), zap.String("book.id", bookID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Book returned successfully.", nil, user)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// writeLendingError maps a lending workflow failure to its api error response.
func (api *APIHandler) writeLendingError(w http.ResponseWriter, r *http.Request, op, userID, bookID string, err error) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	fields := []zap.Field{
		zap.String("user.id", userID),
		zap.String("book.id", bookID),
		zap.String("request.id", requestID),
	}

	var errResp *APIError
	switch err {
	case ErrBookNotFound:
		api.logger.Error("book does not exist", fields...)
		errResp = NewAPIError(requestID, http.StatusNotFound, "book does not exist", EmptyData)
	case ErrUserNotFound:
		api.logger.Error("user does not exist", fields...)
		errResp = NewAPIError(requestID, http.StatusNotFound, "user does not exist", EmptyData)
	case ErrBookNotAvailable:
		api.logger.Error("book is not available", fields...)
		errResp = NewAPIError(requestID, http.StatusBadRequest, "book is not available", EmptyData)
	default:
		api.logger.Error("failed to "+op+" book", append(fields, zap.Error(err))...)
		errResp = NewAPIError(requestID, http.StatusInternalServerError, "failed to "+op+" the book", EmptyData)
	}

	if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
		api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
	}
}
