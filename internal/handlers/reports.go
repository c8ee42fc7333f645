package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"resto-backend/internal/httpx"
	"resto-backend/internal/reports"
	"resto-backend/internal/repository"
)

// ReportHandler serves the periodic and custom-range reports plus the
// calendar navigation helpers.
type ReportHandler struct {
	Repo *repository.Orders
	Log  *zap.Logger
}

func NewReportHandler(repo *repository.Orders, log *zap.Logger) *ReportHandler {
	return &ReportHandler{Repo: repo, Log: log}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func summaryPayload(s reports.Summary, w reports.Window, includePopular bool) map[string]any {
	payload := map[string]any{
		"totalSales":        s.TotalSales.StringFixed(2),
		"totalOrders":       s.TotalOrders,
		"completedOrders":   s.CompletedOrders,
		"pendingOrders":     s.PendingOrders,
		"preparingOrders":   s.PreparingOrders,
		"averageOrderValue": s.AverageOrderValue.StringFixed(2),
		"completedSales":    s.CompletedSales.StringFixed(2),
		"dateRange":         w,
	}
	if includePopular {
		payload["popularItems"] = s.PopularItems
	}
	return payload
}

// Get serves GET /reports and GET /reports/{period}.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := reports.WindowParams{
		Period:    chi.URLParam(r, "period"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Year:      atoi(q.Get("customYear")),
		Month:     atoi(q.Get("customMonth")),
		Week:      atoi(q.Get("customWeek")),
	}
	win := reports.ResolveWindow(params, time.Now())

	orders, err := h.Repo.FindInWindow(r.Context(), win, repository.OrderFilters{})
	if err != nil {
		h.Log.Error("report query failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Failed to build report")
		return
	}
	summary := reports.Summarize(orders)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"orders":  orders,
		"summary": summaryPayload(summary, win, true),
	})
}

// Custom serves GET /reports/custom. Both dates are required; the summary
// carries no popular-items ranking.
func (h *ReportHandler) Custom(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startDate, endDate := q.Get("startDate"), q.Get("endDate")
	if startDate == "" || endDate == "" {
		httpx.ValidationError(w, "Start date and end date are required", nil)
		return
	}
	if _, err := time.ParseInLocation("2006-01-02", startDate, time.Local); err != nil {
		httpx.ValidationError(w, "Invalid start date", nil)
		return
	}
	if _, err := time.ParseInLocation("2006-01-02", endDate, time.Local); err != nil {
		httpx.ValidationError(w, "Invalid end date", nil)
		return
	}

	win := reports.ResolveWindow(reports.WindowParams{StartDate: startDate, EndDate: endDate}, time.Now())
	orders, err := h.Repo.FindInWindow(r.Context(), win, repository.OrderFilters{})
	if err != nil {
		h.Log.Error("custom report query failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Failed to build report")
		return
	}
	summary := reports.Summarize(orders)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"orders":  orders,
		"summary": summaryPayload(summary, win, false),
	})
}

// Years serves GET /reports/years. A store failure degrades to a hardcoded
// recent-years list instead of failing the navigation UI.
func (h *ReportHandler) Years(w http.ResponseWriter, r *http.Request) {
	current := time.Now().Year()
	years, err := h.Repo.DistinctYears(r.Context())
	if err != nil {
		h.Log.Error("distinct years failed", zap.Error(err))
		httpx.JSON(w, http.StatusOK, []int{current, current - 1, current - 2})
		return
	}
	if len(years) == 0 {
		years = []int{current, current - 1}
	}
	httpx.JSON(w, http.StatusOK, years)
}

// Months serves GET /reports/months?year=.
func (h *ReportHandler) Months(w http.ResponseWriter, r *http.Request) {
	yearStr := r.URL.Query().Get("year")
	if yearStr == "" {
		httpx.ValidationError(w, "Year is required", nil)
		return
	}
	allMonths := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		httpx.ValidationError(w, "Invalid year", nil)
		return
	}
	months, err := h.Repo.DistinctMonths(r.Context(), year)
	if err != nil {
		h.Log.Error("distinct months failed", zap.Error(err), zap.Int("year", year))
		httpx.JSON(w, http.StatusOK, allMonths)
		return
	}
	if len(months) == 0 {
		months = allMonths
	}
	httpx.JSON(w, http.StatusOK, months)
}

// Weeks serves GET /reports/weeks?year=&month=. The week list is computed
// from the calendar alone; implausible selectors degrade to a plain
// five-week list.
func (h *ReportHandler) Weeks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	yearStr, monthStr := q.Get("year"), q.Get("month")
	if yearStr == "" || monthStr == "" {
		httpx.ValidationError(w, "Year and month are required", nil)
		return
	}
	year, yerr := strconv.Atoi(yearStr)
	month, merr := strconv.Atoi(monthStr)
	if yerr != nil || merr != nil || year <= 0 || month < 1 || month > 12 {
		fallback := make([]reports.MonthWeek, 0, 5)
		for n := 1; n <= 5; n++ {
			fallback = append(fallback, reports.MonthWeek{Week: n, Label: "Week " + strconv.Itoa(n)})
		}
		httpx.JSON(w, http.StatusOK, fallback)
		return
	}
	httpx.JSON(w, http.StatusOK, reports.WeeksOfMonth(year, time.Month(month), time.Local))
}
