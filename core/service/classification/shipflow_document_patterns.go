package classification

import (
	"regexp"

	"shipflow_server/core/domain"
)

// =============================================================================
// Document Pattern Tables
// =============================================================================

// documentPattern is one entry of an ordered pattern group. Keywords are
// cheap lowercase substring checks; the regex, when set, must also match.
type documentPattern struct {
	keywords   []string
	pattern    *regexp.Regexp
	docType    domain.DocumentType
	subType    domain.DocumentSubType
	confidence float64 // 0-100
	marker     string
}

// Attachment filename patterns. Highest deterministic precision: a named
// document file is strong evidence of the document itself.
var filenamePatterns = []documentPattern{
	{
		keywords:   []string{"booking confirmation", "booking_confirmation", "bookingconfirmation"},
		docType:    domain.DocBookingConfirmation,
		confidence: 92,
		marker:     "filename:booking-confirmation",
	},
	{
		keywords:   []string{"booking amendment", "booking_amendment", "amendment"},
		docType:    domain.DocBookingAmendment,
		confidence: 88,
		marker:     "filename:booking-amendment",
	},
	{
		keywords:   []string{"shipping instruction", "shipping_instruction"},
		pattern:    regexp.MustCompile(`(?i)(^|[\s_-])si([\s_-]|\.|$)|shipping.?instruction`),
		docType:    domain.DocShippingInstructions,
		confidence: 90,
		marker:     "filename:shipping-instructions",
	},
	{
		keywords:   []string{"draft bl", "draft_bl", "bl draft", "bl_draft", "draft hbl", "draft mbl"},
		docType:    domain.DocBLDraft,
		subType:    domain.SubTypeDraft,
		confidence: 92,
		marker:     "filename:bl-draft",
	},
	{
		pattern:    regexp.MustCompile(`(?i)(^|[\s_-])(hbl|house.?bl)([\s_-]|\.|$)`),
		docType:    domain.DocBLReleased,
		subType:    domain.SubTypeHBL,
		confidence: 88,
		marker:     "filename:hbl",
	},
	{
		pattern:    regexp.MustCompile(`(?i)(^|[\s_-])(mbl|master.?bl)([\s_-]|\.|$)`),
		docType:    domain.DocBLReleased,
		subType:    domain.SubTypeMBL,
		confidence: 88,
		marker:     "filename:mbl",
	},
	{
		keywords:   []string{"bill of lading", "bill_of_lading", "billoflading"},
		docType:    domain.DocBLReleased,
		confidence: 90,
		marker:     "filename:bill-of-lading",
	},
	{
		keywords:   []string{"telex release", "telex_release"},
		docType:    domain.DocBLReleased,
		subType:    domain.SubTypeTelexRelease,
		confidence: 90,
		marker:     "filename:telex-release",
	},
	{
		keywords:   []string{"vgm"},
		docType:    domain.DocVGMDeclaration,
		confidence: 86,
		marker:     "filename:vgm",
	},
	{
		keywords:   []string{"commercial invoice", "commercial_invoice"},
		docType:    domain.DocCommercialInvoice,
		confidence: 90,
		marker:     "filename:commercial-invoice",
	},
	{
		keywords:   []string{"packing list", "packing_list", "packinglist"},
		docType:    domain.DocPackingList,
		confidence: 90,
		marker:     "filename:packing-list",
	},
	{
		keywords:   []string{"certificate of origin", "certificate_of_origin"},
		pattern:    regexp.MustCompile(`(?i)(^|[\s_-])coo([\s_-]|\.|$)|certificate.?of.?origin`),
		docType:    domain.DocCertificateOfOrigin,
		confidence: 88,
		marker:     "filename:certificate-of-origin",
	},
	{
		keywords:   []string{"freight invoice", "freight_invoice"},
		docType:    domain.DocFreightInvoice,
		confidence: 88,
		marker:     "filename:freight-invoice",
	},
	{
		keywords:   []string{"checklist"},
		docType:    domain.DocCustomsChecklist,
		confidence: 82,
		marker:     "filename:customs-checklist",
	},
	{
		keywords:   []string{"shipping bill", "shipping_bill", "shippingbill"},
		docType:    domain.DocShippingBill,
		confidence: 88,
		marker:     "filename:shipping-bill",
	},
	{
		keywords:   []string{"bill of entry", "bill_of_entry"},
		pattern:    regexp.MustCompile(`(?i)(^|[\s_-])boe([\s_-]|\.|$)|bill.?of.?entry`),
		docType:    domain.DocBillOfEntry,
		confidence: 88,
		marker:     "filename:bill-of-entry",
	},
	{
		keywords:   []string{"arrival notice", "arrival_notice"},
		docType:    domain.DocArrivalNotice,
		confidence: 92,
		marker:     "filename:arrival-notice",
	},
	{
		keywords:   []string{"delivery order", "delivery_order"},
		docType:    domain.DocDeliveryOrder,
		confidence: 90,
		marker:     "filename:delivery-order",
	},
	{
		keywords:   []string{"gate in", "gate_in", "gatein"},
		docType:    domain.DocGateInConfirmation,
		confidence: 84,
		marker:     "filename:gate-in",
	},
	{
		keywords:   []string{"proof of delivery", "proof_of_delivery"},
		pattern:    regexp.MustCompile(`(?i)(^|[\s_-])pod([\s_-]|\.|$)|proof.?of.?delivery`),
		docType:    domain.DocProofOfDelivery,
		confidence: 88,
		marker:     "filename:proof-of-delivery",
	},
}

// Subject patterns. Ordered most-specific first; subject lines persist across
// reply chains, so confidences sit below filename evidence.
var subjectPatterns = []documentPattern{
	{
		keywords:   []string{"booking confirmation", "booking confirmed"},
		docType:    domain.DocBookingConfirmation,
		confidence: 85,
		marker:     "subject:booking-confirmation",
	},
	{
		keywords:   []string{"booking amendment", "amendment to booking"},
		docType:    domain.DocBookingAmendment,
		confidence: 80,
		marker:     "subject:booking-amendment",
	},
	{
		keywords:   []string{"booking cancel", "cancellation of booking"},
		docType:    domain.DocBookingCancellation,
		confidence: 82,
		marker:     "subject:booking-cancellation",
	},
	{
		keywords:   []string{"si confirmation", "si confirmed"},
		docType:    domain.DocSIConfirmation,
		confidence: 82,
		marker:     "subject:si-confirmation",
	},
	{
		keywords:   []string{"shipping instruction"},
		docType:    domain.DocShippingInstructions,
		confidence: 80,
		marker:     "subject:shipping-instructions",
	},
	{
		keywords:   []string{"si submission", "si cutoff", "si cut-off"},
		docType:    domain.DocShippingInstructions,
		confidence: 72,
		marker:     "subject:si-submission",
	},
	{
		keywords:   []string{"draft bl", "bl draft", "draft hbl", "draft mbl", "check draft"},
		docType:    domain.DocBLDraft,
		subType:    domain.SubTypeDraft,
		confidence: 82,
		marker:     "subject:bl-draft",
	},
	{
		keywords:   []string{"telex release"},
		docType:    domain.DocBLReleased,
		subType:    domain.SubTypeTelexRelease,
		confidence: 82,
		marker:     "subject:telex-release",
	},
	{
		keywords:   []string{"bl release", "bl released", "obl released", "surrender bl"},
		docType:    domain.DocBLReleased,
		confidence: 80,
		marker:     "subject:bl-released",
	},
	{
		keywords:   []string{"vgm"},
		docType:    domain.DocVGMDeclaration,
		confidence: 72,
		marker:     "subject:vgm",
	},
	{
		keywords:   []string{"arrival notice", "cargo arrival"},
		docType:    domain.DocArrivalNotice,
		confidence: 84,
		marker:     "subject:arrival-notice",
	},
	{
		keywords:   []string{"delivery order"},
		docType:    domain.DocDeliveryOrder,
		confidence: 80,
		marker:     "subject:delivery-order",
	},
	{
		keywords:   []string{"bill of entry"},
		docType:    domain.DocBillOfEntry,
		confidence: 80,
		marker:     "subject:bill-of-entry",
	},
	{
		keywords:   []string{"shipping bill"},
		docType:    domain.DocShippingBill,
		confidence: 78,
		marker:     "subject:shipping-bill",
	},
	{
		keywords:   []string{"checklist for approval", "customs checklist"},
		docType:    domain.DocCustomsChecklist,
		confidence: 76,
		marker:     "subject:customs-checklist",
	},
	{
		keywords:   []string{"out of charge", "customs cleared", "customs clearance completed"},
		docType:    domain.DocCustomsClearance,
		confidence: 78,
		marker:     "subject:customs-clearance",
	},
	{
		keywords:   []string{"gate in", "gate-in"},
		docType:    domain.DocGateInConfirmation,
		confidence: 70,
		marker:     "subject:gate-in",
	},
	{
		keywords:   []string{"empty pickup", "container pickup", "pickup confirmation"},
		docType:    domain.DocContainerPickup,
		confidence: 70,
		marker:     "subject:container-pickup",
	},
	{
		keywords:   []string{"proof of delivery", "pod "},
		docType:    domain.DocProofOfDelivery,
		confidence: 76,
		marker:     "subject:proof-of-delivery",
	},
	{
		keywords:   []string{"freight invoice", "invoice for shipment"},
		docType:    domain.DocFreightInvoice,
		confidence: 74,
		marker:     "subject:freight-invoice",
	},
	{
		keywords:   []string{"commercial invoice"},
		docType:    domain.DocCommercialInvoice,
		confidence: 74,
		marker:     "subject:commercial-invoice",
	},
	{
		keywords:   []string{"packing list"},
		docType:    domain.DocPackingList,
		confidence: 72,
		marker:     "subject:packing-list",
	},
}

// Body patterns. Weakest evidence: prose mentions a document more often than
// it carries one.
var bodyPatterns = []documentPattern{
	{
		keywords:   []string{"please find attached the booking confirmation", "booking has been confirmed"},
		docType:    domain.DocBookingConfirmation,
		confidence: 62,
		marker:     "body:booking-confirmation",
	},
	{
		keywords:   []string{"attached the draft bl", "draft bl for your approval", "review the draft bill of lading"},
		docType:    domain.DocBLDraft,
		subType:    domain.SubTypeDraft,
		confidence: 62,
		marker:     "body:bl-draft",
	},
	{
		keywords:   []string{"arrival notice attached", "vessel has arrived", "cargo has arrived"},
		docType:    domain.DocArrivalNotice,
		confidence: 60,
		marker:     "body:arrival-notice",
	},
	{
		keywords:   []string{"bill of entry has been filed", "boe filed"},
		docType:    domain.DocBillOfEntry,
		confidence: 60,
		marker:     "body:bill-of-entry",
	},
	{
		keywords:   []string{"out of charge received", "customs clearance is completed"},
		docType:    domain.DocCustomsClearance,
		confidence: 60,
		marker:     "body:customs-clearance",
	},
	{
		keywords:   []string{"delivery order attached", "do attached"},
		docType:    domain.DocDeliveryOrder,
		confidence: 58,
		marker:     "body:delivery-order",
	},
	{
		keywords:   []string{"cargo delivered", "delivered successfully", "pod attached"},
		docType:    domain.DocProofOfDelivery,
		confidence: 58,
		marker:     "body:proof-of-delivery",
	},
	{
		keywords:   []string{"shipping instructions attached", "si details below"},
		docType:    domain.DocShippingInstructions,
		confidence: 58,
		marker:     "body:shipping-instructions",
	},
}

// Extracted attachment content patterns. When PDF text is available, the
// document's own heading is the strongest evidence there is.
var contentPatterns = []documentPattern{
	{
		keywords:   []string{"booking confirmation"},
		docType:    domain.DocBookingConfirmation,
		confidence: 95,
		marker:     "content:booking-confirmation",
	},
	{
		keywords:   []string{"bill of lading", "b/l no"},
		docType:    domain.DocBLReleased,
		confidence: 93,
		marker:     "content:bill-of-lading",
	},
	{
		keywords:   []string{"draft - not negotiable", "draft bill of lading"},
		docType:    domain.DocBLDraft,
		subType:    domain.SubTypeDraft,
		confidence: 95,
		marker:     "content:bl-draft",
	},
	{
		keywords:   []string{"arrival notice"},
		docType:    domain.DocArrivalNotice,
		confidence: 95,
		marker:     "content:arrival-notice",
	},
	{
		keywords:   []string{"delivery order"},
		docType:    domain.DocDeliveryOrder,
		confidence: 94,
		marker:     "content:delivery-order",
	},
	{
		keywords:   []string{"bill of entry"},
		docType:    domain.DocBillOfEntry,
		confidence: 94,
		marker:     "content:bill-of-entry",
	},
	{
		keywords:   []string{"shipping bill"},
		docType:    domain.DocShippingBill,
		confidence: 93,
		marker:     "content:shipping-bill",
	},
	{
		keywords:   []string{"commercial invoice"},
		docType:    domain.DocCommercialInvoice,
		confidence: 93,
		marker:     "content:commercial-invoice",
	},
	{
		keywords:   []string{"packing list"},
		docType:    domain.DocPackingList,
		confidence: 93,
		marker:     "content:packing-list",
	},
	{
		keywords:   []string{"certificate of origin"},
		docType:    domain.DocCertificateOfOrigin,
		confidence: 93,
		marker:     "content:certificate-of-origin",
	},
	{
		keywords:   []string{"proof of delivery"},
		docType:    domain.DocProofOfDelivery,
		confidence: 93,
		marker:     "content:proof-of-delivery",
	},
}
