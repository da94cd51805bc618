package domain

// NodeKind is the single classification of a device derived from its tags
type NodeKind string

const (
	KindCore    NodeKind = "core"
	KindGateway NodeKind = "gateway"
	KindSwitch  NodeKind = "switch"
	KindDevice  NodeKind = "device"
	KindPrinter NodeKind = "printer"
	KindPhone   NodeKind = "phone"
	KindOther   NodeKind = "other"
)

// kindPriority is checked in order; the first matching tag wins
var kindPriority = []struct {
	tag  string
	kind NodeKind
}{
	{TagCore, KindCore},
	{TagGateway, KindGateway},
	{TagSwitch, KindSwitch},
	{TagDevice, KindDevice},
	{TagPrinter, KindPrinter},
	{TagPhone, KindPhone},
}

// Classify maps a tag set to its kind: Core > Gateway > Switch > Device > Printer > Phone > Other
func Classify(tags []string) NodeKind {
	for _, p := range kindPriority {
		for _, tag := range tags {
			if tag == p.tag {
				return p.kind
			}
		}
	}
	return KindOther
}

// Kind classifies the device
func (d *Device) Kind() NodeKind {
	return Classify(d.Tags)
}

// IsCore reports whether the kind is the core aggregation node
func (k NodeKind) IsCore() bool {
	return k == KindCore
}
