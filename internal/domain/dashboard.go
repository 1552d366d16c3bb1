package domain

// RecentOrder is a row of the dashboard recent orders table.
type RecentOrder struct {
	ID         Text        `json:"id"`
	Tanggal    string      `json:"tanggal"`
	Sekolah    string      `json:"sekolah"`
	JumlahBuku Number      `json:"jumlahBuku"`
	Total      Number      `json:"total"`
	Status     OrderStatus `json:"status"`
}

type MonthlyData struct {
	Ismuba []Number `json:"Ismuba"`
	Mipa   []Number `json:"Mipa"`
}

// DashboardData is the getDashboardData payload.
type DashboardData struct {
	TotalBuku       Number        `json:"totalBuku"`
	TotalUangIsmuba Number        `json:"totalUangIsmuba"`
	TotalUangMipa   Number        `json:"totalUangMipa"`
	TotalSekolah    Number        `json:"totalSekolah"`
	RecentOrders    []RecentOrder `json:"recentOrders"`
	MonthlyData     *MonthlyData  `json:"monthlyData"`
	KabupatenList   []string      `json:"kabupatenList"`
}
