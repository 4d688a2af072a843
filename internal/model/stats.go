package model

// AdminStats counters only ever move forward, via atomic increments on
// registration and successful checkout.
type AdminStats struct {
	TotalRegisteredUsers int64   `json:"totalRegisteredUsers" firestore:"totalRegisteredUsers"`
	TotalOrders          int64   `json:"totalOrders" firestore:"totalOrders"`
	TotalRevenue         float64 `json:"totalRevenue" firestore:"totalRevenue"`
}
