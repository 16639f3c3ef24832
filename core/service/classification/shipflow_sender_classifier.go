package classification

import (
	"strings"

	"shipflow_server/core/domain"
)

// =============================================================================
// Sender & Direction Resolver
// =============================================================================

// SenderClassifier maps a sender address to a sender category via domain and
// local-part pattern tables, and derives message direction from the result.
type SenderClassifier struct {
	forwarderDomains []string
	carrierDomains   map[string]bool
	chaDomains       map[string]bool
	truckerDomains   map[string]bool
	shipperDomains   map[string]bool

	chaLocalParts     []string
	truckerLocalParts []string
}

// SenderTables overrides the built-in pattern tables. Nil slices keep the
// defaults; shipper domains are per-deployment and default to empty.
type SenderTables struct {
	ForwarderDomains []string
	CarrierDomains   []string
	CHADomains       []string
	TruckerDomains   []string
	ShipperDomains   []string
}

// Ocean carriers the forwarder books with.
var defaultCarrierDomains = []string{
	"maersk.com",
	"sealandmaersk.com",
	"msc.com",
	"hapag-lloyd.com",
	"cma-cgm.com",
	"one-line.com",
	"evergreen-line.com",
	"coscoshipping.com",
	"hmm21.com",
	"zim.com",
	"yangming.com",
	"wanhai.com",
	"pilship.com",
}

var defaultCHADomains = []string{
	"jeenaclearance.com",
	"seabridgecha.com",
	"customsclearance.in",
}

var defaultTruckerDomains = []string{
	"om-logistics.com",
	"safexpress.com",
	"tcitransport.in",
}

// Local-part hints fire only when the domain is not in any table.
var defaultCHALocalParts = []string{"customs", "clearance", "cha", "broker"}
var defaultTruckerLocalParts = []string{"dispatch", "transport", "trucking", "fleet"}

// NewSenderClassifier creates a resolver with the given overrides.
func NewSenderClassifier(tables *SenderTables) *SenderClassifier {
	c := &SenderClassifier{
		forwarderDomains:  []string{"intoglo.com"},
		carrierDomains:    toSet(defaultCarrierDomains),
		chaDomains:        toSet(defaultCHADomains),
		truckerDomains:    toSet(defaultTruckerDomains),
		shipperDomains:    map[string]bool{},
		chaLocalParts:     defaultCHALocalParts,
		truckerLocalParts: defaultTruckerLocalParts,
	}
	if tables != nil {
		if len(tables.ForwarderDomains) > 0 {
			c.forwarderDomains = tables.ForwarderDomains
		}
		if len(tables.CarrierDomains) > 0 {
			c.carrierDomains = toSet(tables.CarrierDomains)
		}
		if len(tables.CHADomains) > 0 {
			c.chaDomains = toSet(tables.CHADomains)
		}
		if len(tables.TruckerDomains) > 0 {
			c.truckerDomains = toSet(tables.TruckerDomains)
		}
		if len(tables.ShipperDomains) > 0 {
			c.shipperDomains = toSet(tables.ShipperDomains)
		}
	}
	return c
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[strings.ToLower(s)] = true
	}
	return set
}

// Resolve classifies the effective sender address and derives direction.
// Unmatched senders resolve to SenderUnknown, inbound. Never errors.
func (c *SenderClassifier) Resolve(input *domain.ClassificationInput) (domain.SenderCategory, domain.Direction) {
	category := c.Categorize(input.EffectiveSender())
	direction := domain.DirectionInbound
	if category == domain.SenderIntoglo {
		direction = domain.DirectionOutbound
	}
	return category, direction
}

// Categorize maps one address to a sender category.
func (c *SenderClassifier) Categorize(address string) domain.SenderCategory {
	local, dom := splitAddress(address)
	if dom == "" {
		return domain.SenderUnknown
	}

	for _, fd := range c.forwarderDomains {
		if dom == fd || strings.HasSuffix(dom, "."+fd) {
			return domain.SenderIntoglo
		}
	}
	if matchDomain(c.carrierDomains, dom) {
		return domain.SenderCarrier
	}
	if matchDomain(c.chaDomains, dom) {
		return domain.SenderCHA
	}
	if matchDomain(c.truckerDomains, dom) {
		return domain.SenderTrucker
	}
	if matchDomain(c.shipperDomains, dom) {
		return domain.SenderShipper
	}

	// Fall back to local-part hints for one-off broker/trucker addresses.
	for _, hint := range c.chaLocalParts {
		if strings.Contains(local, hint) {
			return domain.SenderCHA
		}
	}
	for _, hint := range c.truckerLocalParts {
		if strings.Contains(local, hint) {
			return domain.SenderTrucker
		}
	}

	return domain.SenderUnknown
}

// matchDomain checks the domain and every parent domain against the table,
// so in.export@maersk.com and notifications@mail.maersk.com both match.
func matchDomain(table map[string]bool, dom string) bool {
	for {
		if table[dom] {
			return true
		}
		idx := strings.Index(dom, ".")
		if idx < 0 || !strings.Contains(dom[idx+1:], ".") {
			return false
		}
		dom = dom[idx+1:]
	}
}

func splitAddress(address string) (local, dom string) {
	address = strings.ToLower(strings.TrimSpace(address))
	// Tolerate "Name <user@host>" forms.
	if start := strings.LastIndex(address, "<"); start >= 0 {
		address = strings.TrimSuffix(address[start+1:], ">")
	}
	at := strings.LastIndex(address, "@")
	if at <= 0 || at == len(address)-1 {
		return "", ""
	}
	return address[:at], address[at+1:]
}
