package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"casaspese/internal/core"
	"casaspese/internal/log"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListCategories(w, r)
	case http.MethodPost:
		s.handleSaveCategory(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.backend.ListCategories(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Category list failed",
			log.FieldOperation, log.OpList, log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

type categoryRequest struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Icon          string               `json:"icon"`
	Color         string               `json:"color"`
	ExpenseType   string               `json:"expenseType"`
	DisplayOrder  int                  `json:"displayOrder"`
	SubCategories []subCategoryRequest `json:"subCategories"`
}

type subCategoryRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	BudgetLimit float64 `json:"budgetLimit"`
	FixedAmount float64 `json:"fixedAmount"`
	Mandatory   bool    `json:"isMandatory"`
}

func (s *Server) handleSaveCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat := core.Category{
		ID:           req.ID,
		Name:         sanitizeInput(req.Name),
		Icon:         sanitizeInput(req.Icon),
		Color:        sanitizeInput(req.Color),
		ExpenseType:  core.ExpenseType(req.ExpenseType).Normalize(),
		DisplayOrder: req.DisplayOrder,
	}
	for _, sc := range req.SubCategories {
		cat.SubCategories = append(cat.SubCategories, core.SubCategory{
			ID:          sc.ID,
			Name:        sanitizeInput(sc.Name),
			CategoryID:  req.ID,
			BudgetLimit: sc.BudgetLimit,
			FixedAmount: sc.FixedAmount,
			Mandatory:   sc.Mandatory,
		})
	}

	if err := cat.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.backend.SaveCategory(r.Context(), cat)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Category save failed",
			log.FieldOperation, log.OpCreate, log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to save category")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListExpenses(w, r)
	case http.MethodPost:
		s.handleCreateExpense(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}

	cacheKey := "expenses:" + strconv.Itoa(year)
	if cached, ok := s.expensesCache.Get(cacheKey); ok {
		w.Header().Set("X-Cache", "HIT")
		writeJSON(w, http.StatusOK, map[string]any{"expenses": cached})
		return
	}

	expenses, err := s.backend.ListExpenses(r.Context(), year)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Expense list failed",
			log.FieldOperation, log.OpList, log.FieldYear, year, log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}

	s.expensesCache.Set(cacheKey, expenses)
	writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

type expenseRequest struct {
	// Amount arrives as a string so "12,34" from a form field works too.
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	Description   string `json:"description"`
	CategoryID    string `json:"categoryId"`
	SubCategoryID string `json:"subCategoryId"`
	ExpenseType   string `json:"expenseType"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := core.ParseDecimalAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
		return
	}

	expense := core.Expense{
		Amount:        amount,
		Date:          strings.TrimSpace(req.Date),
		Description:   sanitizeInput(req.Description),
		CategoryID:    strings.TrimSpace(req.CategoryID),
		SubCategoryID: strings.TrimSpace(req.SubCategoryID),
		ExpenseType:   core.ExpenseType(req.ExpenseType),
	}
	if err := expense.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.backend.Append(r.Context(), expense)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Expense create failed",
			log.FieldOperation, log.OpAppend, log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to save expense")
		return
	}

	if year, _, ok := core.ParseDate(expense.Date); ok {
		s.expensesCache.Delete("expenses:" + strconv.Itoa(year))
	}

	s.logger.InfoContext(r.Context(), "Expense created",
		log.FieldOperation, log.OpAppend,
		log.FieldCategory, expense.CategoryID,
		log.FieldSubCat, expense.SubCategoryID,
		log.FieldAmount, expense.Amount)

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// handleExpenseByID serves DELETE /expenses/{id}.
func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/expenses/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := s.backend.DeleteExpense(r.Context(), id); err != nil {
		s.logger.WarnContext(r.Context(), "Expense delete failed",
			log.FieldOperation, log.OpDelete, "id", id, log.FieldError, err.Error())
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}

	// The year is unknown after the row is gone; the current year is the
	// common case and other listings age out via TTL.
	s.expensesCache.Delete("expenses:" + strconv.Itoa(time.Now().Year()))

	w.WriteHeader(http.StatusNoContent)
}
