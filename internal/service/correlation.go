package service

import (
	"time"

	"tg-reminder/internal/crash"
	"tg-reminder/internal/logger"
	"tg-reminder/internal/models"
)

// InboundMessage is one text message as the correlator sees it.
type InboundMessage struct {
	ChatID    int64
	MessageID int
	Text      string
	Forwarded bool
}

// CorrelationResult is what the correlator hands on for reminder creation:
// either a single message, or two messages from the same chat merged into a
// description plus a comment.
type CorrelationResult struct {
	ChatID int64
	// Text is the reminder description fed to extraction.
	Text string
	// Comment carries the companion message of a pair, stored verbatim
	// alongside the reminder. Empty for a solo message.
	Comment string
	// Forwarded is set when the description came from forwarded content.
	Forwarded bool
	// MessageIDs lists the source messages, oldest first.
	MessageIDs []int
}

// Correlator pairs a plain message with a forwarded one when both arrive
// from the same chat within the pairing window. A message with no partner is
// released alone once the window expires. All state is in memory; a restart
// simply forgets messages that were still waiting.
type Correlator struct {
	pending         *models.PendingMessageManager
	window          time.Duration
	requireOpposite bool
	handle          func(CorrelationResult)

	// afterFunc is swappable for tests; time.AfterFunc otherwise.
	afterFunc func(time.Duration, func()) *time.Timer
}

// NewCorrelator creates a correlator that invokes handle for every released
// result. handle runs on the submitting goroutine for pairs and on a timer
// goroutine for expired solo messages.
func NewCorrelator(pending *models.PendingMessageManager, window time.Duration, requireOpposite bool, handle func(CorrelationResult)) *Correlator {
	return &Correlator{
		pending:         pending,
		window:          window,
		requireOpposite: requireOpposite,
		handle:          handle,
		afterFunc:       time.AfterFunc,
	}
}

// Submit feeds one message into the correlator.
//
// If the chat has a pending partner inside the window, the two are merged
// and released immediately. Otherwise the message replaces any stale pending
// entry and waits out the window; the replaced entry's timer finds its
// sequence number gone and does nothing.
func (c *Correlator) Submit(msg InboundMessage) {
	now := time.Now()

	partner := c.pending.TakeIf(msg.ChatID, func(entry *models.PendingMessage) bool {
		if now.Sub(entry.CreatedAt) >= c.window {
			return false
		}
		if c.requireOpposite && entry.Forwarded == msg.Forwarded {
			return false
		}
		return true
	})

	if partner != nil {
		logger.Debugf("Paired messages %d and %d in chat %d", partner.MessageID, msg.MessageID, msg.ChatID)
		c.handle(mergeResult(partner, &msg))
		return
	}

	entry := &models.PendingMessage{
		ChatID:    msg.ChatID,
		MessageID: msg.MessageID,
		Text:      msg.Text,
		Forwarded: msg.Forwarded,
		CreatedAt: now,
	}
	seq := c.pending.Put(entry)

	c.afterFunc(c.window, func() {
		expired := c.pending.TakeSeq(msg.ChatID, seq)
		if expired == nil {
			// Paired or superseded in the meantime.
			return
		}
		defer crash.RecoverWithStack("correlator-release")
		c.handle(CorrelationResult{
			ChatID:     expired.ChatID,
			Text:       expired.Text,
			Forwarded:  expired.Forwarded,
			MessageIDs: []int{expired.MessageID},
		})
	})
}

// mergeResult combines a waiting message and its partner. The plain message
// becomes the description and the forwarded one the comment, whichever
// arrived first. A same-kind pair keeps arrival order.
func mergeResult(first *models.PendingMessage, second *InboundMessage) CorrelationResult {
	result := CorrelationResult{
		ChatID:     second.ChatID,
		MessageIDs: []int{first.MessageID, second.MessageID},
	}

	switch {
	case first.Forwarded && !second.Forwarded:
		result.Text = second.Text
		result.Comment = first.Text
	case !first.Forwarded && second.Forwarded:
		result.Text = first.Text
		result.Comment = second.Text
	default:
		result.Text = first.Text
		result.Comment = second.Text
		result.Forwarded = first.Forwarded
	}

	return result
}
