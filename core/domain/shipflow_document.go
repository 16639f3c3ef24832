package domain

// DocumentType identifies the shipping document an email carries or refers to.
type DocumentType string

const (
	// === Booking ===
	DocBookingConfirmation DocumentType = "booking_confirmation"
	DocBookingAmendment    DocumentType = "booking_amendment"
	DocBookingCancellation DocumentType = "booking_cancellation"

	// === Shipping instructions / BL ===
	DocShippingInstructions DocumentType = "shipping_instructions"
	DocSIConfirmation       DocumentType = "si_confirmation"
	DocBLDraft              DocumentType = "bl_draft"
	DocBLReleased           DocumentType = "bl_released"
	DocVGMDeclaration       DocumentType = "vgm_declaration"

	// === Commercial ===
	DocCommercialInvoice   DocumentType = "commercial_invoice"
	DocPackingList         DocumentType = "packing_list"
	DocCertificateOfOrigin DocumentType = "certificate_of_origin"
	DocFreightInvoice      DocumentType = "freight_invoice"

	// === Customs ===
	DocCustomsChecklist DocumentType = "customs_checklist"
	DocShippingBill     DocumentType = "shipping_bill"
	DocBillOfEntry      DocumentType = "bill_of_entry"
	DocCustomsClearance DocumentType = "customs_clearance"

	// === Arrival / delivery ===
	DocArrivalNotice      DocumentType = "arrival_notice"
	DocDeliveryOrder      DocumentType = "delivery_order"
	DocContainerPickup    DocumentType = "container_pickup"
	DocGateInConfirmation DocumentType = "gate_in_confirmation"
	DocProofOfDelivery    DocumentType = "proof_of_delivery"

	DocUnknown DocumentType = "unknown"
)

var knownDocumentTypes = map[DocumentType]struct{}{
	DocBookingConfirmation: {}, DocBookingAmendment: {}, DocBookingCancellation: {},
	DocShippingInstructions: {}, DocSIConfirmation: {}, DocBLDraft: {},
	DocBLReleased: {}, DocVGMDeclaration: {}, DocCommercialInvoice: {},
	DocPackingList: {}, DocCertificateOfOrigin: {}, DocFreightInvoice: {},
	DocCustomsChecklist: {}, DocShippingBill: {}, DocBillOfEntry: {},
	DocCustomsClearance: {}, DocArrivalNotice: {}, DocDeliveryOrder: {},
	DocContainerPickup: {}, DocGateInConfirmation: {}, DocProofOfDelivery: {},
	DocUnknown: {},
}

// IsValid reports whether d is one of the declared document types.
func (d DocumentType) IsValid() bool {
	_, ok := knownDocumentTypes[d]
	return ok
}

// DocumentSubType refines a DocumentType (e.g. draft vs final BL).
type DocumentSubType string

const (
	SubTypeDraft        DocumentSubType = "draft"
	SubTypeFinal        DocumentSubType = "final"
	SubTypeHBL          DocumentSubType = "hbl"
	SubTypeMBL          DocumentSubType = "mbl"
	SubTypeTelexRelease DocumentSubType = "telex_release"
)

// ClassificationMethod records which evidence source produced the winning match.
type ClassificationMethod string

const (
	MethodSubject           ClassificationMethod = "subject"
	MethodAttachmentName    ClassificationMethod = "attachment_name"
	MethodBody              ClassificationMethod = "body"
	MethodAttachmentContent ClassificationMethod = "attachment_content"
	MethodAIFallback        ClassificationMethod = "ai_fallback"
	MethodNone              ClassificationMethod = "none"
)

// Direction is the flow of a message relative to the forwarder.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"

	// DirectionAny is valid only in trigger predicates, never on a
	// classified email.
	DirectionAny Direction = "any"
)

// SenderCategory is the role the sending party plays in a shipment.
type SenderCategory string

const (
	SenderCarrier SenderCategory = "carrier"
	SenderCHA     SenderCategory = "cha" // customs house agent / broker
	SenderTrucker SenderCategory = "trucker"
	SenderShipper SenderCategory = "shipper"
	SenderIntoglo SenderCategory = "intoglo" // the forwarder's own mail
	SenderUnknown SenderCategory = "unknown"
)

// IsKnown reports whether the sender was matched against a pattern table.
func (s SenderCategory) IsKnown() bool {
	return s != SenderUnknown && s != ""
}
