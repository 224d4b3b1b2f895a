package pending_updates

type UpdatesFeed interface {
	PendingUpdates(barbershopID int64) int64
	Ack(barbershopID int64)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
