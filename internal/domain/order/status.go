package order

import (
	"fmt"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
)

// Status represents the lifecycle status of an order
type Status string

const (
	StatusProcessing Status = "PROCESSING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusPacked     Status = "PACKED"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
	StatusReturned   Status = "RETURNED"
)

// IsValid checks if the status is a valid order Status
func (s Status) IsValid() bool {
	switch s {
	case StatusProcessing, StatusConfirmed, StatusPacked, StatusShipped,
		StatusDelivered, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for states that accept no further transitions
// under the strict policy
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusReturned
}

// PaymentStatus represents the settlement status of an order's payment
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PAYMENT_PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentMode identifies how the customer pays for an order
type PaymentMode string

const (
	ModeRazorpay PaymentMode = "RAZORPAY"
	ModeCOD      PaymentMode = "COD"
	ModePickup   PaymentMode = "PICKUP"
	ModeUPI      PaymentMode = "UPI"
)

// IsValid checks if the mode is a valid PaymentMode
func (m PaymentMode) IsValid() bool {
	switch m {
	case ModeRazorpay, ModeCOD, ModePickup, ModeUPI:
		return true
	}
	return false
}

// String returns the string representation of PaymentMode
func (m PaymentMode) String() string {
	return string(m)
}

// RequiresGateway returns true when the mode settles through the external
// payment gateway (intent + signature verification)
func (m PaymentMode) RequiresGateway() bool {
	return m == ModeRazorpay
}

// TransitionPolicy configures how the status machine treats terminal states.
// DELIVERED and RETURNED are terminal under the strict default; operators that
// need to correct mis-marked deliveries can enable terminal correction.
type TransitionPolicy struct {
	AllowTerminalCorrection bool
}

// StrictPolicy rejects any transition out of DELIVERED or RETURNED
func StrictPolicy() TransitionPolicy {
	return TransitionPolicy{AllowTerminalCorrection: false}
}

// statusTransitions is the table of legal lifecycle transitions. Forward
// moves may skip stages (a store can pack and ship in one update); CANCELLED
// and RETURNED are reachable only before delivery, and an order can be
// reinstated out of CANCELLED back into the fulfilment chain.
var statusTransitions = map[Status][]Status{
	StatusProcessing: {StatusConfirmed, StatusPacked, StatusShipped, StatusDelivered, StatusCancelled, StatusReturned},
	StatusConfirmed:  {StatusPacked, StatusShipped, StatusDelivered, StatusCancelled, StatusReturned},
	StatusPacked:     {StatusShipped, StatusDelivered, StatusCancelled, StatusReturned},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusCancelled:  {StatusProcessing, StatusConfirmed, StatusPacked},
	StatusDelivered:  {},
	StatusReturned:   {},
}

// terminalCorrections lists the transitions additionally permitted when
// TransitionPolicy.AllowTerminalCorrection is set
var terminalCorrections = map[Status][]Status{
	StatusDelivered: {StatusShipped, StatusReturned},
	StatusReturned:  {StatusDelivered, StatusCancelled},
}

// legalPaymentStatuses is the table of (status, paymentStatus) pairs the
// machine accepts. COD and pickup orders move through fulfilment while still
// PAYMENT_PENDING; gateway orders are PAID from CONFIRMED onwards.
var legalPaymentStatuses = map[Status][]PaymentStatus{
	StatusProcessing: {PaymentPending, PaymentPaid, PaymentFailed},
	StatusConfirmed:  {PaymentPending, PaymentPaid},
	StatusPacked:     {PaymentPending, PaymentPaid},
	StatusShipped:    {PaymentPending, PaymentPaid},
	StatusDelivered:  {PaymentPending, PaymentPaid},
	StatusCancelled:  {PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded},
	StatusReturned:   {PaymentPaid, PaymentRefunded},
}

// CanTransitionTo checks if the status can transition to the target status
// under the given policy
func (s Status) CanTransitionTo(target Status, policy TransitionPolicy) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	if policy.AllowTerminalCorrection {
		for _, allowed := range terminalCorrections[s] {
			if allowed == target {
				return true
			}
		}
	}
	return false
}

// IsLegalPair checks if a lifecycle status may carry the given payment status
func IsLegalPair(status Status, payment PaymentStatus) bool {
	for _, allowed := range legalPaymentStatuses[status] {
		if allowed == payment {
			return true
		}
	}
	return false
}

// ValidateTransition checks a full transition request against the machine.
// Returns an INVALID_TRANSITION domain error describing the rejected move.
func ValidateTransition(from Status, to Status, payment PaymentStatus, policy TransitionPolicy) error {
	if !to.IsValid() {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Unknown order status %q", to))
	}
	if !payment.IsValid() {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Unknown payment status %q", payment))
	}
	if !from.CanTransitionTo(to, policy) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition order from %s to %s", from, to))
	}
	if !IsLegalPair(to, payment) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Payment status %s is not valid for order status %s", payment, to))
	}
	return nil
}
