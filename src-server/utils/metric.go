package utils

type Metric struct {
	DatabaseRead                  chan float64
	DatabaseWrite                 chan float64
	DatabaseReadForAuthMiddleware chan float64
	DormspamSyncLatency           chan float64
	DormspamSyncedEvents          chan float64
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:                  make(chan float64),
		DatabaseWrite:                 make(chan float64),
		DatabaseReadForAuthMiddleware: make(chan float64),
		DormspamSyncLatency:           make(chan float64),
		DormspamSyncedEvents:          make(chan float64),
	}
}
