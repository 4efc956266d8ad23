package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/postwind/postwind/config"
	"github.com/postwind/postwind/internal/service/delivery"
	"github.com/postwind/postwind/pkg/logger"
)

func TestInitDeliveryPipelineSenderSelection(t *testing.T) {
	cases := []struct {
		name          string
		useBroadcast  bool
		segmentID     string
		wantBroadcast bool
	}{
		{"broadcast with default segment", true, "seg-1", true},
		{"broadcast without default segment falls back", true, "", false},
		{"transactional", false, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{
				Provider: config.ProviderConfig{
					UseBroadcastAPI:  tc.useBroadcast,
					DefaultSegmentID: tc.segmentID,
				},
				Scheduler: config.SchedulerConfig{Interval: time.Minute},
			}

			a := NewApp(cfg, WithLogger(logger.NewTestLogger(t)))
			a.initDeliveryPipeline()

			_, isBroadcast := a.sender.(*delivery.BroadcastSender)
			assert.Equal(t, tc.wantBroadcast, isBroadcast)
		})
	}
}
