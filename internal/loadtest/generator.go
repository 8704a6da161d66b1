package loadtest

import (
	"context"

	"github.com/google/uuid"

	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/logger"
)

// generateSignups spreads n unique synthetic students round-robin over the activities.
func generateSignups(ctx context.Context, dir model.Directory, n int) []Signup {
	names := dir.Names()

	signups := make([]Signup, n)
	for i := range signups {
		signups[i] = Signup{
			Activity: names[i%len(names)],
			Email:    uuid.NewString() + "@" + emailDomain,
		}
	}
	logger.Get().Info(ctx, "generated signups",
		logger.Int("count", n),
		logger.Int("activities", len(names)))
	return signups
}
