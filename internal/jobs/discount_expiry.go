package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type discountExpirer interface {
	DeactivateExpired(ctx context.Context, today time.Time) (int64, error)
}

// latestZone is the last timezone to reach any calendar date. A code whose
// expiry date is before today there has expired for every owner.
var latestZone = time.FixedZone("UTC-12", -12*60*60)

// ExpireDiscounts switches off discount codes past their expiry date.
// Validation rejects expired codes on its own; the sweep updates the flag
// shown on the owner dashboard.
type ExpireDiscounts struct {
	repo discountExpirer
	log  *logrus.Logger
	now  func() time.Time
}

func NewExpireDiscounts(repo discountExpirer, log *logrus.Logger) *ExpireDiscounts {
	return &ExpireDiscounts{repo: repo, log: log, now: time.Now}
}

func (j *ExpireDiscounts) Name() string { return "expire_discounts" }

func (j *ExpireDiscounts) Run(ctx context.Context) error {
	today := j.now().In(latestZone)

	n, err := j.repo.DeactivateExpired(ctx, today)
	if err != nil {
		return err
	}

	if n > 0 {
		j.log.WithFields(logrus.Fields{
			"count": n,
			"today": today.Format(time.DateOnly),
		}).Info("expired discount codes deactivated")
	}
	return nil
}
