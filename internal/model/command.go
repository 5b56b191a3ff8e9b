package model

// Command is the closed set of requests accepted by the job supervisor.
type Command interface {
	isCommand()
}

// StartSingle requests the download of one URL.
type StartSingle struct {
	JobID   string
	URL     string
	Options JobOptions
}

// StartBatch requests sequential downloads of every URL in order.
type StartBatch struct {
	JobID   string
	URLs    []string
	Options JobOptions
}

// Cancel requests best-effort termination of the active job.
type Cancel struct{}

func (StartSingle) isCommand() {}
func (StartBatch) isCommand()  {}
func (Cancel) isCommand()      {}
