package api

import (
	"context"
	"net/http"
	"strconv"

	reqdto "sharebook/internal/handler/dto/request"
	resdto "sharebook/internal/handler/dto/response"
	"sharebook/internal/handler/httperr"
	"sharebook/internal/handler/middleware"
	"sharebook/internal/usecase/commands"
	"sharebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookHandler struct {
	cmds commands.BookCommands
	q    queries.BookQueries
}

func NewBookHandler(cmds commands.BookCommands, q queries.BookQueries) *BookHandler {
	return &BookHandler{cmds: cmds, q: q}
}

// @Summary Create book
// @Description Register a book owned by the caller. The id is generated when omitted.
// @Tags books
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller id"
// @Param request body reqdto.CreateBookRequest true "Create book request"
// @Success 201 {object} resdto.BookResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetCurrentUser(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeUnauthenticated, middleware.ErrMissingUser, "Unauthorized", nil)
		return
	}
	var req reqdto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.cmds.CreateBook(c.Request.Context(), req.ToCommand(), userID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.Header("Location", "/api/books/"+result.BookID.String())
	h.respondWithBook(c, http.StatusCreated, result.BookID)
}

// @Summary List books
// @Description List books newest first, optionally filtered by a title substring
// @Tags books
// @Produce json
// @Param title query string false "Case-insensitive title substring"
// @Param limit query int false "Max items (default 20, max 200)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.BookListResponse
// @Failure 400 {object} httperr.Response
// @Router /api/books [get]
func (h *BookHandler) List(c *gin.Context) {
	limit := queries.DefaultListLimit
	if v := c.Query("limit"); v != "" {
		iv, err := strconv.Atoi(v)
		if err != nil {
			httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid limit", nil)
			return
		}
		limit = queries.ValidateLimit(iv)
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}
	items, next, err := h.q.List(c.Request.Context(), queries.BookFilters{Title: c.Query("title")}, cursor, limit)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	res, err := resdto.FromBookList(items, next)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Get book
// @Description Get a book with its current loan request
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} resdto.BookResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}
	h.respondWithBook(c, http.StatusOK, id)
}

// @Summary Update book
// @Description Update the caller's own book. Omitted fields keep their value.
// @Tags books
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller id"
// @Param id path string true "Book ID"
// @Param request body reqdto.UpdateBookRequest true "Update book request"
// @Success 200 {object} resdto.BookResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}
	userID, ok := middleware.GetCurrentUser(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeUnauthenticated, middleware.ErrMissingUser, "Unauthorized", nil)
		return
	}
	var req reqdto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid request", nil)
		return
	}
	if err := h.cmds.UpdateBook(c.Request.Context(), id, req.ToCommand(), userID); err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	h.respondWithBook(c, http.StatusOK, id)
}

// @Summary Request loan
// @Description Ask the owner to lend a shared book to the caller
// @Tags loan-requests
// @Produce json
// @Param X-User-ID header string true "Caller id"
// @Param id path string true "Book ID"
// @Success 201 {object} resdto.LoanRequestStatusResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/books/{id}/loan-requests [post]
func (h *BookHandler) RequestLoan(c *gin.Context) {
	h.loanTransition(c, http.StatusCreated, h.cmds.RequestLoan)
}

// @Summary Accept loan request
// @Description Accept the waiting loan request of the caller's book
// @Tags loan-requests
// @Produce json
// @Param X-User-ID header string true "Caller id"
// @Param id path string true "Book ID"
// @Success 200 {object} resdto.LoanRequestStatusResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/books/{id}/loan-requests/accept [post]
func (h *BookHandler) AcceptLoan(c *gin.Context) {
	h.loanTransition(c, http.StatusOK, h.cmds.AcceptLoan)
}

// @Summary Refuse loan request
// @Description Drop the current loan request of the caller's book
// @Tags loan-requests
// @Produce json
// @Param X-User-ID header string true "Caller id"
// @Param id path string true "Book ID"
// @Success 200 {object} resdto.BookResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/books/{id}/loan-requests/refuse [post]
func (h *BookHandler) RefuseLoan(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}
	userID, ok := middleware.GetCurrentUser(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeUnauthenticated, middleware.ErrMissingUser, "Unauthorized", nil)
		return
	}
	if err := h.cmds.RefuseLoan(c.Request.Context(), id, userID); err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	h.respondWithBook(c, http.StatusOK, id)
}

type loanCommand func(ctx context.Context, bookID uuid.UUID, currentUser string) (*commands.LoanRequestResult, error)

func (h *BookHandler) loanTransition(c *gin.Context, status int, run loanCommand) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}
	userID, ok := middleware.GetCurrentUser(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeUnauthenticated, middleware.ErrMissingUser, "Unauthorized", nil)
		return
	}
	result, err := run(c.Request.Context(), id, userID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(status, resdto.FromLoanRequestResult(result))
}

func (h *BookHandler) respondWithBook(c *gin.Context, status int, id uuid.UUID) {
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	res, err := resdto.FromBookView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(status, res)
}

func parseBookID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}
