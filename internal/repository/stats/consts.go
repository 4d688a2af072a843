package stats

const (
	// the stats doc lives at artifacts/{appId}/adminData/dashboardStats
	artifactsNode string = "artifacts"
	adminDataNode string = "adminData"
	statsDocId    string = "dashboardStats"

	// Fields' name and path
	TotalRegisteredUsersFieldPath string = "totalRegisteredUsers"
	TotalOrdersFieldPath          string = "totalOrders"
	TotalRevenueFieldPath         string = "totalRevenue"
)
