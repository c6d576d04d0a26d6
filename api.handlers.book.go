package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateBook godoc
//
//	@Summary		Add a new book to the catalog
//	@Description	Creates a book record. Requires the acting user to carry the admin role.
//	@Tags			books
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		AdminBookRequest	true	"acting user id and book details"
//	@Success		200		{object}	APIResponse
//	@Failure		400		{object}	APIError
//	@Failure		403		{object}	APIError
//	@Failure		500		{object}	APIError
//	@Router			/v1/books/admin/add [post]
func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	payload := AdminBookRequest{}
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	err := DecodeRequestBody(r, &payload)
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to create the book", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	if !api.requireAdmin(w, r, payload.UserID) {
		return
	}

	book := payload.Book
	err = ValidateCreateBookRequestBody(&book)
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to create the book", err.Error())
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book.ID = api.idsHandler.Generate(BookIDPrefix)
	book.IsAvailable = true
	book.BorrowedBy = ""
	book.Reviews = []Review{}
	book.CreatedAt = api.clock.Now().UTC().String()
	book.UpdatedAt = api.clock.Now().UTC().String()

	err = api.bookService.Add(r.Context(), book.ID, book)
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to create the book", book)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to create book", zap.String("book.id", book.ID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Book created successfully.", nil, book)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetAllBooks godoc
//
//	@Summary	Fetch all books from the catalog
//	@Tags		books
//	@Produce	json
//	@Success	200	{object}	APIResponse
//	@Failure	500	{object}	APIError
//	@Router		/v1/books [get]
func (api *APIHandler) GetAllBooks(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	books, err := api.bookService.GetAll(r.Context())
	if err != nil {
		api.logger.Error("failed to get all books", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to get all books", books)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to get all books", zap.String("request.id", requestID))
	total := len(books)
	resp := GenericResponse(requestID, http.StatusOK, "All books fetched successfully.", &total, books)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.Error(err))
	}
}

// GetOneBook godoc
//
//	@Summary	Fetch a single book by its id
//	@Tags		books
//	@Produce	json
//	@Param		id	path		string	true	"book id"
//	@Success	200	{object}	APIResponse
//	@Failure	404	{object}	APIError
//	@Failure	500	{object}	APIError
//	@Router		/v1/books/{id} [get]
func (api *APIHandler) GetOneBook(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := chi.URLParam(r, "id")
	book, err := api.bookService.GetOne(r.Context(), id)
	if err == ErrBookNotFound {
		api.logger.Error("book does not exist", zap.String("book.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "book does not exist", book)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to get book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to get the book", book)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to get book", zap.String("book.id", id), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Book fetched successfully.", nil, book)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// UpdateBook godoc
//
//	@Summary		Update the catalog fields of a book
//	@Description	Overlays title, author, genre and publication date. Availability and borrower are never touched.
//	@Tags			books
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"book id"
//	@Param			payload	body		AdminBookRequest	true	"acting user id and fields to update"
//	@Success		200		{object}	APIResponse
//	@Failure		400		{object}	APIError
//	@Failure		403		{object}	APIError
//	@Failure		404		{object}	APIError
//	@Failure		500		{object}	APIError
//	@Router			/v1/books/admin/update/{id} [put]
func (api *APIHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	payload := AdminBookRequest{}
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := chi.URLParam(r, "id")
	err := DecodeRequestBody(r, &payload)
	if err != nil {
		api.logger.Error("failed to update book", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to update the book", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	if !api.requireAdmin(w, r, payload.UserID) {
		return
	}

	book, err := api.bookService.Update(r.Context(), id, payload.Book)
	if err == ErrBookNotFound {
		api.logger.Error("book does not exist", zap.String("book.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "book does not exist", book)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to update book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to update the book", book)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to update book", zap.String("book.id", id), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Book updated successfully.", nil, book)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// DeleteOneBook godoc
//
//	@Summary		Delete a book from the catalog
//	@Description	Removes the book and pulls its id from the borrower list when currently out.
//	@Tags			books
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"book id"
//	@Param			payload	body		AdminActionRequest	true	"acting user id"
//	@Success		200		{object}	APIResponse
//	@Failure		403		{object}	APIError
//	@Failure		404		{object}	APIError
//	@Failure		500		{object}	APIError
//	@Router			/v1/books/admin/delete/{id} [delete]
func (api *APIHandler) DeleteOneBook(w http.ResponseWriter, r *http.Request) {
	payload := AdminActionRequest{}
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := chi.URLParam(r, "id")
	err := DecodeRequestBody(r, &payload)
	if err != nil {
		api.logger.Error("failed to delete book", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to delete the book", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	if !api.requireAdmin(w, r, payload.UserID) {
		return
	}

	err = api.bookService.Delete(r.Context(), id)
	if err == ErrBookNotFound {
		api.logger.Error("book does not exist", zap.String("book.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "book does not exist", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to delete book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to delete the book", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to delete book", zap.String("book.id", id), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Book deleted successfully.", nil, EmptyData)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// AddBookReview godoc
//
//	@Summary		Submit a review on a book
//	@Description	Appends a rating between 1 and 5 with an optional text. The reviewer must be an existing user.
//	@Tags			books
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"book id"
//	@Param			payload	body		ReviewRequest	true	"reviewer id, rating and text"
//	@Success		200		{object}	APIResponse
//	@Failure		400		{object}	APIError
//	@Failure		404		{object}	APIError
//	@Failure		500		{object}	APIError
//	@Router			/v1/books/review/{id} [post]
func (api *APIHandler) AddBookReview(w http.ResponseWriter, r *http.Request) {
	payload := ReviewRequest{}
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := chi.URLParam(r, "id")
	err := DecodeRequestBody(r, &payload)
	if err != nil {
		api.logger.Error("failed to add review", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to add the review", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	err = ValidateReviewRequestBody(&payload)
	if err != nil {
		api.logger.Error("failed to add review", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to add the review", err.Error())
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	review := Review{Reviewer: payload.UserID, Rating: payload.Rating, Text: payload.Text}
	book, err := api.bookService.AddReview(r.Context(), id, review)
	if err == ErrBookNotFound {
		api.logger.Error("book does not exist", zap.String("book.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "book does not exist", book)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err == ErrUserNotFound {
		api.logger.Error("reviewer does not exist", zap.String("user.id", payload.UserID), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "reviewer does not exist", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to add review", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to add the review", book)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to add review", zap.String("book.id", id), zap.String("user.id", payload.UserID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Review added successfully.", nil, book)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
