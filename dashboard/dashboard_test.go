package dashboard_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/traveline-backoffice/api"
	"github.com/jrsteele09/traveline-backoffice/dashboard"
	"github.com/jrsteele09/traveline-backoffice/internal/errors"
	"github.com/jrsteele09/traveline-backoffice/internal/utils"
	"github.com/jrsteele09/traveline-backoffice/query"
	"github.com/stretchr/testify/require"
)

const createdAt = "2025-03-01T08:00:00Z"

type staticTokens string

func (s staticTokens) AccessToken() string { return string(s) }

// fakeBackend is a small in-memory stand-in for the REST backend.
type fakeBackend struct {
	mu           sync.Mutex
	destinations map[int]map[string]any
	requests     []string
	bodies       map[string]string
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{destinations: map[int]map[string]any{}, bodies: map[string]string{}}
	for _, id := range []int{1, 5, 9} {
		b.destinations[id] = map[string]any{
			"id": id, "name": fmt.Sprintf("Destination %d", id),
			"latitude": 16.05, "longitude": 108.2,
			"favouriteTimes": 0, "userRatingsTotal": 0,
			"categories": []string{}, "photos": []string{}, "videos": []string{},
			"available": true, "createdAt": createdAt, "updatedAt": createdAt,
		}
	}
	return b
}

func (b *fakeBackend) count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r == method+" "+path {
			n++
		}
	}
	return n
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)
	body, _ := io.ReadAll(r.Body)
	b.bodies[r.Method+" "+r.URL.Path] = string(body)

	write := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/destinations":
		out := []map[string]any{}
		for _, id := range []int{1, 5, 9} {
			if d, ok := b.destinations[id]; ok {
				out = append(out, d)
			}
		}
		write(http.StatusOK, out)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/destinations/"):
		var id int
		_, _ = fmt.Sscanf(strings.TrimPrefix(r.URL.Path, "/destinations/"), "%d", &id)
		if _, ok := b.destinations[id]; !ok {
			write(http.StatusNotFound, map[string]string{"message": "Destination not found"})
			return
		}
		delete(b.destinations, id)
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodGet && r.URL.Path == "/rental-vehicles":
		write(http.StatusOK, []map[string]any{
			{"licensePlate": "51A-12345", "contractId": 3, "pricePerHour": 50000, "pricePerDay": 400000, "status": "pending", "availability": "available", "totalRentals": 0, "averageRating": 0},
		})
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/rental-vehicles/"):
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/rental-contracts/"):
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet && r.URL.Path == "/users":
		write(http.StatusOK, []map[string]any{{"id": 1, "username": "mai"}, {"id": 2}})
	case r.Method == http.MethodGet && r.URL.Path == "/provinces":
		write(http.StatusOK, []map[string]any{{"id": 1, "code": "01", "name": "Ha Noi"}, {"id": 48, "code": "48", "name": "Da Nang"}})
	case r.Method == http.MethodPatch && r.URL.Path == "/provinces/bulk/update":
		write(http.StatusOK, []map[string]any{{"id": 48, "code": "48", "name": "Da Nang", "avatarUrl": "https://cdn/x.png"}})
	case r.Method == http.MethodGet && r.URL.Path == "/vouchers":
		write(http.StatusOK, []map[string]any{})
	case r.Method == http.MethodPost && r.URL.Path == "/vouchers":
		write(http.StatusCreated, map[string]any{
			"id": 12, "code": "TET2026", "discountType": "percentage", "value": "10.00",
			"usedCount": 0, "maxUsage": 100, "active": true, "createdAt": createdAt, "updatedAt": createdAt,
		})
	case r.Method == http.MethodGet && r.URL.Path == "/statistics/user-growth":
		write(http.StatusOK, []map[string]any{{"name": r.URL.Query().Get("period"), "users": 3}})
	case r.Method == http.MethodGet && r.URL.Path == "/vn-admin/legacy/provinces/48/districts":
		write(http.StatusOK, []map[string]any{{"code": "490", "name": "Lien Chieu"}})
	default:
		write(http.StatusNotFound, map[string]string{"message": "no route " + r.URL.Path})
	}
}

func setup(t *testing.T) (*dashboard.Service, *fakeBackend) {
	t.Helper()
	b := newFakeBackend()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, staticTokens("token"))
	require.NoError(t, err)
	return dashboard.New(client, query.New(time.Minute)), b
}

func destinationIDs(items []dashboard.Destination) []int {
	ids := make([]int, 0, len(items))
	for _, d := range items {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestDeleteDestination_RefreshesSubscribedList(t *testing.T) {
	svc, b := setup(t)
	ctx := context.Background()

	sub := svc.Cache().Subscribe(svc.DestinationsQuery(dashboard.DestinationFilter{}))
	defer sub.Unsubscribe()

	first := <-sub.Updates()
	require.NoError(t, first.Err)
	require.Equal(t, []int{1, 5, 9}, destinationIDs(first.Data.([]dashboard.Destination)))

	require.NoError(t, svc.DeleteDestination(ctx, 5))

	select {
	case u := <-sub.Updates():
		require.NoError(t, u.Err)
		require.Equal(t, []int{1, 9}, destinationIDs(u.Data.([]dashboard.Destination)))
	case <-time.After(2 * time.Second):
		t.Fatal("destination list was not refreshed after delete")
	}

	items, err := svc.Destinations(ctx, dashboard.DestinationFilter{})
	require.NoError(t, err)
	require.Equal(t, []int{1, 9}, destinationIDs(items))
	require.Equal(t, 2, b.count(http.MethodGet, "/destinations"))
}

func TestDeleteDestination_FailureKeepsCache(t *testing.T) {
	svc, b := setup(t)
	ctx := context.Background()

	_, err := svc.Destinations(ctx, dashboard.DestinationFilter{})
	require.NoError(t, err)

	err = svc.DeleteDestination(ctx, 404)
	require.ErrorIs(t, err, errors.ErrNotFound)

	_, err = svc.Destinations(ctx, dashboard.DestinationFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, b.count(http.MethodGet, "/destinations"))
}

func TestUsers_RejectsItemMissingRequiredField(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.Users(context.Background())
	require.ErrorIs(t, err, errors.ErrInvalidResponse)
	require.Contains(t, err.Error(), "[1].username is required")
}

func TestApproveVehicle_InvalidatesPlateAndList(t *testing.T) {
	svc, b := setup(t)
	ctx := context.Background()

	vehicles, err := svc.Vehicles(ctx)
	require.NoError(t, err)
	require.Equal(t, "51A-12345", vehicles[0].LicensePlate)

	require.NoError(t, svc.ApproveVehicle(ctx, "51A-12345"))
	require.Equal(t, 1, b.count(http.MethodPatch, "/rental-vehicles/51A-12345/approve"))
	require.True(t, svc.Cache().IsStale("rental-vehicles"))

	require.ErrorIs(t, svc.ApproveVehicle(ctx, "51A/123"), errors.ErrInvalidArgument)
}

func TestRejectContract_SendsReason(t *testing.T) {
	svc, b := setup(t)

	require.NoError(t, svc.RejectContract(context.Background(), 7, "missing documents"))
	require.JSONEq(t, `{"rejectedReason":"missing documents"}`, b.bodies["PATCH /rental-contracts/7/reject"])
}

func TestBulkUpdateProvinces_InvalidatesTouchedProvinces(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Provinces(ctx)
	require.NoError(t, err)

	updated, err := svc.BulkUpdateProvinces(ctx, []dashboard.ProvinceUpdate{{ID: 48, AvatarURL: "https://cdn/x.png"}})
	require.NoError(t, err)
	require.Equal(t, "https://cdn/x.png", updated[0].AvatarURL)
	require.True(t, svc.Cache().IsStale("provinces"))
}

func TestCreateVoucher_InvalidatesVoucherLists(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Vouchers(ctx, dashboard.VoucherFilter{Active: utils.Ptr(true)})
	require.NoError(t, err)

	created, err := svc.CreateVoucher(ctx, dashboard.CreateVoucherInput{
		Code: "TET2026", DiscountType: dashboard.DiscountPercentage, Value: 10, MaxUsage: 100, Active: true,
	})
	require.NoError(t, err)
	require.Equal(t, 12, created.ID)
	// Empty lists still hold the LIST tag.
	require.True(t, svc.Cache().IsStale("vouchers?active=true"))
}

func TestResource(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Resource("bookings")
	require.ErrorIs(t, err, errors.ErrNotFound)

	destinations, err := svc.Resource(dashboard.ResourceDestinations)
	require.NoError(t, err)
	require.Nil(t, destinations.Approve)
	require.ErrorIs(t, destinations.Delete(ctx, "abc"), errors.ErrInvalidArgument)

	_, err = destinations.List(ctx, url.Values{"limit": {"ten"}})
	require.ErrorIs(t, err, errors.ErrInvalidArgument)

	stats, err := svc.Resource(dashboard.ResourceStatistics)
	require.NoError(t, err)
	growth, err := stats.Get(ctx, "user-growth-month")
	require.NoError(t, err)
	require.Equal(t, []dashboard.UserGrowthPoint{{Name: "month", Users: 3}}, growth)

	admin, err := svc.Resource(dashboard.ResourceAdministrative)
	require.NoError(t, err)
	districts, err := admin.List(ctx, url.Values{"province": {"48"}})
	require.NoError(t, err)
	require.Equal(t, []dashboard.AdminUnit{{Code: "490", Name: "Lien Chieu"}}, districts)

	vouchers, err := svc.Resource(dashboard.ResourceVouchers)
	require.NoError(t, err)
	created, err := vouchers.Create(ctx, json.RawMessage(`{"code":"TET2026","discountType":"percentage","value":10}`))
	require.NoError(t, err)
	require.Equal(t, 12, created.(*dashboard.Voucher).ID)
	_, err = vouchers.Create(ctx, json.RawMessage(`{"code":42}`))
	require.ErrorIs(t, err, errors.ErrInvalidArgument)

	require.Contains(t, svc.ResourceNames(), dashboard.ResourceVehicles)
}
