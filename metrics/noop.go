package metrics

import "time"

type NoopRecorder struct{}

func (NoopRecorder) RedemptionProcessed(string, string)   {}
func (NoopRecorder) RedeemDuration(string, time.Duration) {}
