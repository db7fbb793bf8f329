package businessflow

import (
	"time"

	"github.com/amirphl/tallybook/aggregation"
	"github.com/amirphl/tallybook/app/dto"
	"github.com/amirphl/tallybook/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Clock returns the current instant; flows never read the wall clock directly
type Clock func() time.Time

// ClientMetadata holds client-related information attached to log entries
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// logFields returns the metadata as logrus fields
func (cm *ClientMetadata) logFields() logrus.Fields {
	if cm == nil {
		return logrus.Fields{}
	}
	return logrus.Fields{
		"ip":         cm.IPAddress,
		"user_agent": cm.UserAgent,
		"request_id": cm.RequestID,
	}
}

// ToCounterDTO converts a counter model to its API representation
func ToCounterDTO(counter models.Counter) dto.CounterDTO {
	return dto.CounterDTO{
		ID:         counter.ID.String(),
		Name:       counter.Name,
		Color:      counter.Color,
		StartValue: counter.StartValue,
		StepValue:  counter.StepValue,
		OrderIndex: counter.OrderIndex,
		State:      string(counter.State),
		Archived:   counter.IsArchived(),
		Deleted:    counter.IsDeleted(),
		CreatedAt:  counter.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:  counter.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// ToEventDTO converts an event model to its API representation
func ToEventDTO(event models.Event) dto.EventDTO {
	return dto.EventDTO{
		ID:        event.ID.String(),
		CounterID: event.CounterID.String(),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Date:      event.Date,
		Delta:     event.Delta,
	}
}

// ToViewStateDTO converts a view state to its API representation
func ToViewStateDTO(view models.ViewState) dto.ViewStateDTO {
	return dto.ViewStateDTO{
		Sort:       string(view.Sort),
		Period:     string(view.Period),
		Visibility: string(view.Visibility),
		Compact:    view.Compact,
	}
}

// ToBoardRowDTO converts an aggregated row to its API representation
func ToBoardRowDTO(row aggregation.Row, windows *aggregation.WindowSums) dto.BoardRowDTO {
	out := dto.BoardRowDTO{
		Counter: ToCounterDTO(*row.Counter),
		Value:   row.Stats.WindowedValue,
		Total:   row.Stats.LifetimeTotal,
		Step:    row.Counter.EffectiveStep(),
	}
	if row.Stats.LastEventAt != nil {
		last := row.Stats.LastEventAt.Format(time.RFC3339Nano)
		out.LastEventAt = &last
	}
	if windows != nil {
		out.Windows = make(map[string]decimal.Decimal, len(windows.Values))
		for period, value := range windows.Values {
			out.Windows[string(period)] = value
		}
	}
	return out
}

func orDefaultClock(clock Clock) Clock {
	if clock == nil {
		return time.Now
	}
	return clock
}

func orDefaultLogger(logger *logrus.Logger) *logrus.Logger {
	if logger == nil {
		return logrus.StandardLogger()
	}
	return logger
}
