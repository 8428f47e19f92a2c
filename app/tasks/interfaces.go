package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background task processing and by
// the API to trigger on-demand tasks.
// Example usage:
//
//	scheduler := NewScheduler(reminderRepo, buyerRepo, vehicleRepo)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewMatchBuyersTask(buyerRepo, vehicleRepo))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
