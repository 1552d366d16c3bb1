package dashboard

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
)

type FetcherMock struct {
	kabupaten string
	data      *domain.DashboardData
}

func (f *FetcherMock) Dashboard(_ context.Context, kabupaten string) (*domain.DashboardData, error) {
	f.kabupaten = kabupaten
	return f.data, nil
}

const payload = `{
	"success": true,
	"totalBuku": "1250",
	"totalUangIsmuba": 15000000,
	"totalUangMipa": 9000000,
	"totalSekolah": 42,
	"recentOrders": [
		{"id": 101, "tanggal": "2025-03-01", "sekolah": "SD Muh 1", "jumlahBuku": 10, "total": 200000, "status": "Lunas"},
		{"id": 102, "tanggal": "2025-03-02", "sekolah": "SD Muh 2", "jumlahBuku": 5, "total": 100000, "status": "Belum Lunas"},
		{"id": 103, "tanggal": "2025-03-03", "sekolah": "SD Muh 3", "jumlahBuku": 2, "total": 50000, "status": "Belum Lunas"},
		{"id": 104, "tanggal": "2025-03-04", "sekolah": "SD Muh 4", "jumlahBuku": 1, "total": 30000, "status": "Kelebihan"}
	],
	"monthlyData": {"Ismuba": [1, 2, 3], "Mipa": []},
	"kabupatenList": ["Semarang", "Batang", "Kendal"]
}`

func TestLoad_Projection(t *testing.T) {
	var d domain.DashboardData
	require.NoError(t, json.Unmarshal([]byte(payload), &d))
	f := &FetcherMock{data: &d}

	v, err := NewService(f).Load(context.Background(), "Kendal")
	require.NoError(t, err)

	assert.Equal(t, "Kendal", f.kabupaten)
	assert.Equal(t, Counters{TotalBuku: 1250, TotalUangIsmuba: 15000000, TotalUangMipa: 9000000, TotalSekolah: 42}, v.Counters)
	assert.Equal(t, StatusCounts{Total: 4, Unpaid: 2, Paid: 1, Overpaid: 1}, v.Status)
	assert.Equal(t, []string{"Batang", "Kendal", "Semarang"}, v.KabupatenList)
	assert.Equal(t, "101", v.RecentOrders[0].ID.String())

	require.Len(t, v.Monthly.Labels, 12)
	assert.Equal(t, "Mei", v.Monthly.Labels[4])
	assert.Equal(t, "Agu", v.Monthly.Labels[7])
	assert.Equal(t, []float64{1, 2, 3, 0, 0, 0, 0, 0, 0, 0, 0, 0}, v.Monthly.Series[0].Data)
	assert.Len(t, v.Monthly.Series[1].Data, 12)

	assert.Equal(t, []float64{15000000, 9000000}, v.Distribution.Values)
}

func TestProject_MissingMonthlyData(t *testing.T) {
	v := Project(&domain.DashboardData{}, "")

	assert.Equal(t, make([]float64, 12), v.Monthly.Series[0].Data)
	assert.Equal(t, make([]float64, 12), v.Monthly.Series[1].Data)
	assert.NotNil(t, v.RecentOrders)
	assert.Equal(t, StatusCounts{}, v.Status)
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	d := &domain.DashboardData{KabupatenList: []string{"B", "A"}}
	Project(d, "")
	assert.Equal(t, []string{"B", "A"}, d.KabupatenList)
}
