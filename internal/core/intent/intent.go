// Package intent classifies one normalized utterance into a transaction intent.
// Classification never fails; text that matches nothing is Unknown
package intent

import "sikabook/internal/core/lexicon"

// Intent is the closed set of transaction-relevant intents
type Intent uint8

const (
	// Unknown means no pattern matched
	Unknown Intent = iota
	// ProductMention is a reference to a product being discussed
	ProductMention
	// QuantityMention is a count, optionally with a unit
	QuantityMention
	// PriceInquiry asks what something costs
	PriceInquiry
	// PriceOffer quotes a price
	PriceOffer
	// PriceCounteroffer pushes back on a quoted price
	PriceCounteroffer
	// PriceAgreement accepts a price
	PriceAgreement
	// Cancellation abandons the transaction in progress
	Cancellation
)

// String returns the stable wire name
func (i Intent) String() string {
	switch i {
	case ProductMention:
		return "product_mention"
	case QuantityMention:
		return "quantity_mention"
	case PriceInquiry:
		return "price_inquiry"
	case PriceOffer:
		return "price_offer"
	case PriceCounteroffer:
		return "price_counteroffer"
	case PriceAgreement:
		return "price_agreement"
	case Cancellation:
		return "transaction_cancellation"
	default:
		return "unknown"
	}
}

// IsPrice reports whether the intent is price-bearing; the amount extractor
// accepts bare numbers only under these
func (i Intent) IsPrice() bool {
	return i == PriceOffer || i == PriceCounteroffer || i == PriceAgreement
}

// Priority resolves multi-match ambiguity; higher wins.
// cancellation > agreement > counteroffer > offer > inquiry > quantity > product > unknown
func (i Intent) Priority() int {
	switch i {
	case Cancellation:
		return 7
	case PriceAgreement:
		return 6
	case PriceCounteroffer:
		return 5
	case PriceOffer:
		return 4
	case PriceInquiry:
		return 3
	case QuantityMention:
		return 2
	case ProductMention:
		return 1
	default:
		return 0
	}
}

// fromPackName maps a lexicon rule name onto the enum
func fromPackName(name string) Intent {
	switch name {
	case lexicon.IntentCancellation:
		return Cancellation
	case lexicon.IntentAgreement:
		return PriceAgreement
	case lexicon.IntentCounteroffer:
		return PriceCounteroffer
	case lexicon.IntentOffer:
		return PriceOffer
	case lexicon.IntentInquiry:
		return PriceInquiry
	case lexicon.IntentQuantity:
		return QuantityMention
	case lexicon.IntentProduct:
		return ProductMention
	default:
		return Unknown
	}
}
