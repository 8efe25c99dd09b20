package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/slash/internal/engine"
)

// AlertEvaluator defines the interface for triggering price-drop alert
// evaluation.
type AlertEvaluator interface {
	EvaluateAlertsForUser(ctx context.Context, username string) (*engine.AlertReport, error)
	RunAlertPassForAllUsers(ctx context.Context) (engine.PassSummary, error)
}

// AlertsHandler handles on-demand alert evaluation requests.
type AlertsHandler struct {
	evaluator AlertEvaluator
}

// NewAlertsHandler creates a new AlertsHandler.
func NewAlertsHandler(ev AlertEvaluator) *AlertsHandler {
	return &AlertsHandler{evaluator: ev}
}

// AlertReportOutput is the response body for a single user's evaluation.
type AlertReportOutput struct {
	Body *engine.AlertReport
}

// AlertPassOutput is the response body for an all-users pass.
type AlertPassOutput struct {
	Body struct {
		Status string `json:"status" example:"alert pass completed"`
		engine.PassSummary
	}
}

// EvaluateUser compares the user's wishlist against live prices and
// notifies the user once with the resulting batch.
func (h *AlertsHandler) EvaluateUser(ctx context.Context, input *UserPathInput) (*AlertReportOutput, error) {
	report, err := h.evaluator.EvaluateAlertsForUser(ctx, input.Username)
	if err != nil {
		return nil, apiError("alert evaluation", err)
	}
	return &AlertReportOutput{Body: report}, nil
}

// RunPass triggers an alert pass over every registered user.
func (h *AlertsHandler) RunPass(ctx context.Context, _ *struct{}) (*AlertPassOutput, error) {
	summary, err := h.evaluator.RunAlertPassForAllUsers(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("alert pass failed: " + err.Error())
	}

	resp := &AlertPassOutput{}
	resp.Body.Status = "alert pass completed"
	resp.Body.PassSummary = summary
	return resp, nil
}

// RegisterAlertRoutes registers alert trigger endpoints with the Huma API.
func RegisterAlertRoutes(api huma.API, h *AlertsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "evaluate-user-alerts",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{username}/alerts",
		Summary:     "Evaluate alerts for a user",
		Description: "Checks the user's wishlist against live prices and sends one notification " +
			"with every item priced below its reference price. Delivery failures are reported " +
			"in the response, not as an error.",
		Tags:   []string{"alerts"},
		Errors: []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.EvaluateUser)

	huma.Register(api, huma.Operation{
		OperationID: "run-alert-pass",
		Method:      http.MethodPost,
		Path:        "/api/v1/alerts/run",
		Summary:     "Run alert pass",
		Description: "Runs alert evaluation for every registered user. Per-user failures are counted, not returned.",
		Tags:        []string{"alerts"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.RunPass)
}
