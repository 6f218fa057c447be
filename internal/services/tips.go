package services

import (
	"context"
	"fmt"

	"greensteps/internal/models"

	wr "github.com/mroth/weightedrand/v2"
	"github.com/samber/do"
	"go.uber.org/zap"
)

type ServiceTips struct {
	container *do.Injector
	chooser   *wr.Chooser[models.EcoTip, int]
	logger    *zap.Logger

	serviceNotification *ServiceNotification
}

func NewServiceTips(container *do.Injector) (*ServiceTips, error) {
	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	serviceNotification, err := do.Invoke[*ServiceNotification](container)
	if err != nil {
		return nil, err
	}

	choices := make([]wr.Choice[models.EcoTip, int], 0, len(models.EcoTips))
	for _, tip := range models.EcoTips {
		choices = append(choices, wr.NewChoice(tip, tip.Weight))
	}

	chooser, err := wr.NewChooser(choices...)
	if err != nil {
		return nil, err
	}

	return &ServiceTips{container, chooser, logger, serviceNotification}, nil
}

func (service *ServiceTips) PickTip() models.EcoTip {
	return service.chooser.Pick()
}

// BroadcastDailyTip sends one weighted-random tip to everyone who has not
// muted educational notifications.
func (service *ServiceTips) BroadcastDailyTip(ctx context.Context) error {
	tip := service.PickTip()

	sent, err := service.serviceNotification.Announce(ctx, models.NotificationEducational,
		fmt.Sprintf("Eco tip: %s", tip.Title), tip.Body)
	if err != nil {
		return err
	}

	service.logger.Info("daily tip sent", zap.String("tip", tip.Title), zap.Int("recipients", sent))
	return nil
}
