package session

import (
	"strings"
	"time"

	"sikabook/internal/core/intent"
)

// snippet history kept for the transcript excerpt on completion
const maxSnippets = 6

// Machine drives one conversation's session through the transition table.
// Each completed or abandoned transaction resets it to Idle, so a machine
// outlives many transactions
type Machine struct {
	idleTimeout time.Duration

	state    State
	product  *ProductObservation
	quantity *QuantityObservation
	prices   []PricePoint

	intentStrength confSum
	sellerConf     confSum
	customerConf   confSum
	amountCert     float64

	snippets     []string
	startedAt    time.Time
	lastActivity time.Time
}

// NewMachine builds an idle machine. A non-positive timeout selects the default
func NewMachine(idleTimeout time.Duration) *Machine {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Machine{idleTimeout: idleTimeout}
}

// State returns the current state
func (m *Machine) State() State { return m.state }

// LastActivity returns when the session last advanced; zero while idle
func (m *Machine) LastActivity() time.Time { return m.lastActivity }

// Reset forces Idle, discarding any in-progress session
func (m *Machine) Reset() {
	*m = Machine{idleTimeout: m.idleTimeout}
}

// CheckTimeout discards the session when it has been inactive for the idle
// timeout. Callers run it before each event and from a watchdog sweep
func (m *Machine) CheckTimeout(now time.Time) (Result, bool) {
	if m.state == Idle {
		return Result{}, false
	}
	if now.Sub(m.lastActivity) < m.idleTimeout {
		return Result{}, false
	}
	m.Reset()
	return Result{Outcome: OutcomeTimedOut, State: Idle, Reason: "idle timeout"}, true
}

// Apply runs one event through the transition table. Unknown intents and
// pairs the table doesn't list leave the session untouched
func (m *Machine) Apply(ev Event) Result {
	if ev.Intent == intent.Cancellation {
		m.Reset()
		return Result{Outcome: OutcomeCancelled, State: Idle}
	}
	if ev.Intent == intent.Unknown {
		return m.unrecognized("unknown intent")
	}

	switch m.state {
	case Idle:
		return m.applyIdle(ev)
	case ProductDetected:
		return m.applyProductDetected(ev)
	case QuantityDetected:
		return m.applyQuantityDetected(ev)
	case PriceNegotiation:
		return m.applyNegotiation(ev)
	}
	return m.unrecognized("state accepts no events")
}

func (m *Machine) applyIdle(ev Event) Result {
	switch ev.Intent {
	case intent.ProductMention:
		m.begin(ev)
		m.setProduct(ev)
		return m.transitioned(ProductDetected)
	case intent.PriceInquiry:
		m.begin(ev)
		m.notePrice(ev)
		return m.transitioned(PriceNegotiation)
	}
	return m.unrecognized("intent not expected while idle")
}

func (m *Machine) applyProductDetected(ev Event) Result {
	switch ev.Intent {
	case intent.ProductMention:
		m.observe(ev)
		m.setProduct(ev)
		return m.transitioned(ProductDetected)
	case intent.QuantityMention:
		m.observe(ev)
		if ev.Quantity != nil {
			q := *ev.Quantity
			m.quantity = &q
		}
		return m.transitioned(QuantityDetected)
	}
	return m.unrecognized("intent not expected after product")
}

func (m *Machine) applyQuantityDetected(ev Event) Result {
	switch ev.Intent {
	case intent.PriceOffer, intent.PriceAgreement:
		if ev.Amount == nil && len(m.prices) == 0 {
			return m.unrecognized("no price to settle on")
		}
		m.observe(ev)
		m.notePrice(ev)
		return m.complete(ev)
	}
	return m.unrecognized("intent not expected after quantity")
}

func (m *Machine) applyNegotiation(ev Event) Result {
	switch ev.Intent {
	case intent.PriceOffer, intent.PriceCounteroffer:
		if ev.Amount == nil {
			return m.unrecognized("offer carried no amount")
		}
		m.observe(ev)
		m.notePrice(ev)
		return m.transitioned(PriceNegotiation)
	case intent.ProductMention:
		// fills in the product a price-first conversation skipped
		m.observe(ev)
		m.setProduct(ev)
		return m.transitioned(PriceNegotiation)
	case intent.PriceAgreement:
		if ev.Amount == nil && len(m.prices) == 0 {
			return m.unrecognized("no price to settle on")
		}
		m.observe(ev)
		m.notePrice(ev)
		return m.complete(ev)
	}
	return m.unrecognized("intent not expected during negotiation")
}

// complete assembles the record candidate and resets to Idle, so a repeated
// agreement finds an idle machine and emits nothing
func (m *Machine) complete(ev Event) Result {
	final := m.prices[len(m.prices)-1]
	c := &Completion{
		Product:            m.product,
		Quantity:           m.quantity,
		FinalPrice:         final.Amount,
		OriginalPrice:      m.prices[0].Amount,
		PriceHistory:       append([]PricePoint(nil), m.prices...),
		AmountCertainty:    m.amountCert,
		IntentStrength:     m.intentStrength.mean(),
		SellerConfidence:   m.sellerConf.mean(),
		CustomerConfidence: m.customerConf.mean(),
		Snippet:            strings.Join(m.snippets, " / "),
		At:                 ev.At,
	}
	m.Reset()
	return Result{Outcome: OutcomeCompleted, State: Idle, Completion: c}
}

func (m *Machine) begin(ev Event) {
	m.startedAt = ev.At
	m.observe(ev)
}

// observe folds the event's confidences into the session and marks activity
func (m *Machine) observe(ev Event) {
	m.lastActivity = ev.At
	if ev.Strength > 0 {
		m.intentStrength.add(ev.Strength)
	}
	switch ev.Speaker {
	case SpeakerSeller:
		m.sellerConf.add(ev.SpeakerConfidence)
	case SpeakerCustomer:
		m.customerConf.add(ev.SpeakerConfidence)
	}
	if s := strings.TrimSpace(ev.Snippet); s != "" {
		m.snippets = append(m.snippets, s)
		if len(m.snippets) > maxSnippets {
			m.snippets = m.snippets[len(m.snippets)-maxSnippets:]
		}
	}
}

func (m *Machine) setProduct(ev Event) {
	if ev.Product == nil {
		return
	}
	p := *ev.Product
	m.product = &p
}

func (m *Machine) notePrice(ev Event) {
	if ev.Amount == nil {
		return
	}
	m.prices = append(m.prices, PricePoint{Amount: ev.Amount.Amount, Intent: ev.Intent, At: ev.At})
	m.amountCert = ev.Amount.Certainty
}

func (m *Machine) transitioned(next State) Result {
	m.state = next
	return Result{Outcome: OutcomeTransition, State: next}
}

func (m *Machine) unrecognized(reason string) Result {
	return Result{Outcome: OutcomeUnrecognized, State: m.state, Reason: reason}
}
