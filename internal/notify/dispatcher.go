package notify

import "go.uber.org/zap"

type Message struct {
	To      string
	Subject string
	Body    string
}

// Dispatcher decouples notification delivery from the request path.
// Same shape as the audit dispatcher: buffered channel, one worker,
// drop-on-full.
type Dispatcher struct {
	sender Sender
	log    *zap.Logger
	queue  chan Message
}

func NewDispatcher(sender Sender, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		log:    log,
		queue:  make(chan Message, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for msg := range d.queue {
		if msg.To == "" {
			continue
		}
		if err := d.sender.Send(msg.To, msg.Subject, msg.Body); err != nil {
			d.log.Warn("notification send failed",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
	}
}

func (d *Dispatcher) Dispatch(msg Message) {
	select {
	case d.queue <- msg:
	default:
		d.log.Warn("notification queue full, dropping message", zap.String("to", msg.To))
	}
}
