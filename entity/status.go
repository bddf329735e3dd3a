package entity

import "time"

// ComputeStatus derives an item's status from its quantity, expiry date and
// minimum stock threshold at a given instant. Rules are evaluated top-down,
// first match wins:
//
//  1. quantity <= 0                      -> OUT_OF_STOCK
//  2. past expiry date                   -> EXPIRED
//  3. expiry within the expiring window  -> EXPIRING
//  4. quantity below threshold           -> LOW_STOCK
//  5. otherwise                          -> FRESH
//
// The stored status column is only a cache of this function.
func ComputeStatus(quantity float64, expiry *time.Time, threshold *float64, now time.Time, expiringWindow time.Duration) ItemStatus {
	if quantity <= 0 {
		return StatusOutOfStock
	}
	if expiry != nil {
		if now.After(*expiry) {
			return StatusExpired
		}
		if expiry.Sub(now) <= expiringWindow {
			return StatusExpiring
		}
	}
	if threshold != nil && quantity < *threshold {
		return StatusLowStock
	}
	return StatusFresh
}

// IsLowStock reports the low-stock fact independently of the single-valued
// status, so a fresh or expiring item can still be flagged for restocking.
func IsLowStock(quantity float64, threshold *float64) bool {
	return threshold != nil && quantity < *threshold
}

// StatusSeverity orders statuses for listing, most urgent first.
func StatusSeverity(s ItemStatus) int {
	switch s {
	case StatusOutOfStock:
		return 4
	case StatusExpired:
		return 3
	case StatusExpiring:
		return 2
	case StatusLowStock:
		return 1
	default:
		return 0
	}
}
