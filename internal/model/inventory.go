package model

// TravelClass is the coach class of a train (AC1, AC2, AC3, Sleeper...).
// The set is closed; anything outside it is rejected at the boundary.
type TravelClass string

const (
	ClassAC1     TravelClass = "AC1"
	ClassAC2     TravelClass = "AC2"
	ClassAC3     TravelClass = "AC3"
	ClassSleeper TravelClass = "Sleeper"
	ClassCC      TravelClass = "CC"
	ClassEC      TravelClass = "EC"
	Class2S      TravelClass = "2S"
)

// ValidClass reports whether s names a known travel class.
func ValidClass(s string) bool {
	switch TravelClass(s) {
	case ClassAC1, ClassAC2, ClassAC3, ClassSleeper, ClassCC, ClassEC, Class2S:
		return true
	}
	return false
}

// BerthType is the physical seat category within a class.
type BerthType string

const (
	BerthUpper  BerthType = "upper"
	BerthMiddle BerthType = "middle"
	BerthLower  BerthType = "lower"
)

// BerthTypes lists every berth type in stable (presentation) order.
var BerthTypes = []BerthType{BerthUpper, BerthMiddle, BerthLower}

// ValidBerth reports whether s names a known berth type.
func ValidBerth(s string) bool {
	switch BerthType(s) {
	case BerthUpper, BerthMiddle, BerthLower:
		return true
	}
	return false
}

// Quota is the allocation channel a booking draws from.  Quotas have
// independent waitlists; general and tatkal never share a queue.
type Quota string

const (
	QuotaGeneral       Quota = "GENERAL"
	QuotaTatkal        Quota = "TATKAL"
	QuotaPremiumTatkal Quota = "PREMIUM_TATKAL"
)

// ValidQuota reports whether s names a known quota.
func ValidQuota(s string) bool {
	switch Quota(s) {
	case QuotaGeneral, QuotaTatkal, QuotaPremiumTatkal:
		return true
	}
	return false
}

// InventoryKey identifies one countable pool of berths: a train on a
// travel date, narrowed to a class and berth type.  It is immutable
// and comparable, so it can be used directly as a map key.
//
// Fields:
//  TrainNumber – the train's public number (e.g. "12001").
//  TravelDate  – travel date in YYYY-MM-DD form.
//  Class       – coach class.
//  Berth       – berth type within the class.
type InventoryKey struct {
	TrainNumber string
	TravelDate  string
	Class       TravelClass
	Berth       BerthType
}

// String renders the key for logs and lock/queue indexing.
func (k InventoryKey) String() string {
	return k.TrainNumber + "/" + k.TravelDate + "/" + string(k.Class) + "/" + string(k.Berth)
}

// InventoryRecord is the committed state of one inventory pool.
// Available is always derived from Total and Booked — it is never
// stored independently, so the two counters cannot drift apart.
//
// Fields:
//  Key           – the pool this record counts.
//  Total         – physical berths in the pool, fixed at open time.
//  Booked        – committed confirmed berths; 0 ≤ Booked ≤ Total.
//  BaseFarePaise – class base fare in paise, from the schedule catalog.
//  Version       – bumped on every committed mutation; lets readers
//                  detect that a snapshot is stale without locking.
type InventoryRecord struct {
	Key           InventoryKey
	Total         int
	Booked        int
	BaseFarePaise int64
	Version       uint64
}

// Available returns the derived free-berth count.
func (r InventoryRecord) Available() int { return r.Total - r.Booked }
