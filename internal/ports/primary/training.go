package primary

import (
	"context"

	"github.com/example/skillmatrix/internal/core/delta"
)

// TrainingService defines the primary port for training logs and the
// recommendations they raise.
type TrainingService interface {
	// LogTraining records a training session. When a level change is
	// requested an open recommendation is created or re-pointed.
	LogTraining(ctx context.Context, req LogTrainingRequest) (*LogTrainingResponse, error)

	// ListRecent lists the newest training logs of a line.
	ListRecent(ctx context.Context, lineID string, limit int) ([]delta.TrainingLog, error)

	// ListOpenRecommendations lists the open recommendations of a line.
	ListOpenRecommendations(ctx context.Context, lineID string) ([]delta.Recommendation, error)

	// ActionRecommendation closes an open recommendation.
	ActionRecommendation(ctx context.Context, req ActionRecommendationRequest) (*delta.Recommendation, error)
}

// LogTrainingRequest contains parameters for logging a training session.
type LogTrainingRequest struct {
	LineID               string `validate:"required"`
	EmployeeID           string `validate:"required"`
	PositionID           string `validate:"required"`
	TrainerName          string `validate:"max=100"`
	LoggedByName         string `validate:"required,max=100"`
	LoggedByRole         string `validate:"required,oneof=operator team_lead supervisor"`
	DurationMinutes      int    `validate:"min=0,max=1440"`
	Notes                string `validate:"max=1000"`
	Shift                string `validate:"omitempty,oneof=day afternoon night"`
	RecommendLevelChange bool
}

// LogTrainingResponse contains the stored log and any recommendation touched.
type LogTrainingResponse struct {
	Log            delta.TrainingLog
	Recommendation *delta.Recommendation
	// Merged is true when an existing open recommendation was re-pointed.
	Merged bool
}

// ActionRecommendationRequest contains parameters for actioning a recommendation.
type ActionRecommendationRequest struct {
	ClientID   string `validate:"required"`
	Outcome    string `validate:"required,oneof=promoted deferred declined"`
	ActionedBy string `validate:"required,max=100"`
	Note       string `validate:"max=1000"`
}
