package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Message is a unit of work posted into the loop from an asynchronous
// source (console reader, edge watcher) and consumed by controllers
// during the next iteration.
type Message interface{}

// Controller defines the abstract controlling logic, invoked once per
// loop iteration at its registered stage.
type Controller interface {
	Control(ControlContext) error
}

// TimeSource provides the time for controlling logic. All controllers
// in one iteration observe the same instant.
type TimeSource interface {
	Time() time.Time
}

// ControlContext provides the context of the current control iteration.
type ControlContext interface {
	TimeSource
	// Context retrieves context.Context.
	Context() context.Context
	// Stage gets the stage being executed.
	Stage() int
	// Messages retrieves all messages collected when this
	// iteration starts.
	Messages() MessageStore

	LoopControl
}

// Stages of one loop iteration, always executed in this order. The
// fixed ordering guarantees a sample read at StageSense is attributed
// to the duty applied in a previous iteration, never to one applied
// later in the same iteration.
const (
	// StageSense reads sensors (pulse counts, elapsed time).
	StageSense int = iota
	// StageControl runs decision logic and consumes messages.
	StageControl
	// StageActuate applies outputs (PWM duty).
	StageActuate
	// StageReport emits periodic output (RPM lines, CSV export).
	StageReport

	stageCount
)

// LoopControl exposes access to the controlling loop.
type LoopControl interface {
	// PostMessage enqueues the message for the next iteration.
	PostMessage(Message)
	// TriggerNext schedules the next iteration to be executed
	// immediately instead of waiting for the tick timer.
	TriggerNext()
}

// MessageStore provides read/write access to a list of messages.
type MessageStore interface {
	// ProcessMessages uses a processor to process all messages.
	ProcessMessages(MessageProcessor)

	MessageAppender
}

// MessageAppender appends message to store.
type MessageAppender interface {
	// AddMessages appends messages to the store for the next
	// processing cycle.
	AddMessages(msgs ...Message)
}

// MessageProcessor is used by MessageStore to process messages.
type MessageProcessor interface {
	ProcessMessage(MessageProcessingContext)
}

// ProcessMessageFunc is the func form of MessageProcessor.
type ProcessMessageFunc func(MessageProcessingContext)

// ProcessMessage implements MessageProcessor.
func (f ProcessMessageFunc) ProcessMessage(mc MessageProcessingContext) {
	f(mc)
}

// MessageProcessingContext provides context for the current message.
type MessageProcessingContext interface {
	// CurrentMessage gets the current message being processed.
	CurrentMessage() Message
	// MessageTaken indicates the message has been processed and
	// should be removed from store.
	MessageTaken()
	// StopProcessing indicates no need to examine further messages.
	StopProcessing()

	MessageAppender
}

// ControlFunc defines the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(ctx ControlContext) error {
	return f(ctx)
}
