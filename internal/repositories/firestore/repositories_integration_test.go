//go:build integration

package firestore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	pconfig "github.com/weinberg-digital/storefront-api/internal/platform/config"
	pfirestore "github.com/weinberg-digital/storefront-api/internal/platform/firestore"
	"github.com/weinberg-digital/storefront-api/internal/repositories"
)

const firestoreEmulatorImage = "gcr.io/google.com/cloudsdktool/google-cloud-cli:emulators"

func newEmulatorProvider(t *testing.T, projectID string) *pfirestore.Provider {
	t.Helper()

	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not available: " + err.Error())
	}
	ensureDockerDaemon(t)

	port := freePort(t)
	endpoint := fmt.Sprintf("127.0.0.1:%d", port)
	containerID := startFirestoreEmulator(t, port)
	t.Cleanup(func() { stopContainer(containerID) })

	waitForEndpoint(t, endpoint, 30*time.Second)

	provider := pfirestore.NewProvider(pconfig.FirestoreConfig{
		ProjectID:    projectID,
		EmulatorHost: endpoint,
	})
	t.Cleanup(func() {
		_ = provider.Close(context.Background())
	})
	return provider
}

func TestCartRepositoryIntegration(t *testing.T) {
	provider := newEmulatorProvider(t, "storefront-cart-test")

	repo, err := NewCartRepository(provider)
	if err != nil {
		t.Fatalf("new cart repository: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cart := domain.Cart{
		UserID: "kunde-1",
		Items: []domain.CartItem{
			{ProductID: "w1", Quantity: 2},
			{ProductID: "w2", Quantity: 1},
		},
	}
	if err := repo.Save(ctx, cart); err != nil {
		t.Fatalf("save cart: %v", err)
	}

	loaded, err := repo.Get(ctx, "kunde-1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(loaded.Items) != 2 || loaded.Items[0].ProductID != "w1" || loaded.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart items %+v", loaded.Items)
	}
	if loaded.ItemCount() != 3 {
		t.Fatalf("expected item count 3, got %d", loaded.ItemCount())
	}

	if err := repo.Delete(ctx, "kunde-1"); err != nil {
		t.Fatalf("delete cart: %v", err)
	}
	_, err = repo.Get(ctx, "kunde-1")
	var repoErr repositories.RepositoryError
	if !errors.As(err, &repoErr) || !repoErr.IsNotFound() {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
}

func TestCounterRepositoryIntegration(t *testing.T) {
	provider := newEmulatorProvider(t, "storefront-counter-test")

	repo, err := NewCounterRepository(provider)
	if err != nil {
		t.Fatalf("new counter repository: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	const workers = 16
	results := make([]int64, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(idx int) {
			defer wg.Done()
			value, err := repo.Next(ctx, "orders:2026", 1)
			if err != nil {
				t.Errorf("next(%d): %v", idx, err)
				return
			}
			results[idx] = value
		}(i)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
	for i, val := range results {
		if val != int64(i+1) {
			t.Fatalf("expected gap-free sequence, position %d has %d", i, val)
		}
	}

	max := int64(2)
	start := int64(0)
	if err := repo.Configure(ctx, "orders:bounded", repositories.CounterConfig{
		Step:         1,
		MaxValue:     &max,
		InitialValue: &start,
	}); err != nil {
		t.Fatalf("configure counter: %v", err)
	}
	for i := int64(1); i <= max; i++ {
		if _, err := repo.Next(ctx, "orders:bounded", 0); err != nil {
			t.Fatalf("next bounded %d: %v", i, err)
		}
	}
	_, err = repo.Next(ctx, "orders:bounded", 0)
	var counterErr *repositories.CounterError
	if !errors.As(err, &counterErr) || counterErr.Code != repositories.CounterErrorExhausted {
		t.Fatalf("expected exhaustion error, got %v", err)
	}
}

func TestWishlistRepositoryIntegration(t *testing.T) {
	provider := newEmulatorProvider(t, "storefront-wishlist-test")

	repo, err := NewWishlistRepository(provider)
	if err != nil {
		t.Fatalf("new wishlist repository: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	addedAt := time.Now().UTC()
	created, err := repo.Put(ctx, "kunde-1", "w1", addedAt)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !created {
		t.Fatal("expected first put to create the entry")
	}
	created, err = repo.Put(ctx, "kunde-1", "w1", addedAt.Add(time.Hour))
	if err != nil {
		t.Fatalf("second put: %v", err)
	}
	if created {
		t.Fatal("expected second put to be a no-op")
	}

	entries, err := repo.List(ctx, "kunde-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].ProductID != "w1" {
		t.Fatalf("unexpected entries %+v", entries)
	}

	if err := repo.Delete(ctx, "kunde-1", "w1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	entries, err = repo.List(ctx, "kunde-1")
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty wishlist, got %+v", entries)
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	addr, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("unable to allocate port: %v", err)
	}
	defer addr.Close()
	return addr.Addr().(*net.TCPAddr).Port
}

func startFirestoreEmulator(t *testing.T, port int) string {
	t.Helper()
	args := []string{
		"run", "-d", "--rm",
		"-p", fmt.Sprintf("%d:8080", port),
		firestoreEmulatorImage,
		"gcloud", "beta", "emulators", "firestore", "start",
		"--host-port=0.0.0.0:8080",
		"--quiet",
	}

	cmd := exec.Command("docker", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to start firestore emulator: %v - %s", err, string(out))
	}
	id := strings.TrimSpace(string(out))
	if id == "" {
		t.Fatalf("docker returned empty container id")
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}

func stopContainer(id string) {
	if id == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = exec.CommandContext(ctx, "docker", "stop", id).Run()
}

func waitForEndpoint(t *testing.T, endpoint string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", endpoint, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		lastErr = err
		time.Sleep(250 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = errors.New("timeout waiting for endpoint")
	}
	t.Fatalf("emulator did not become ready: %v", lastErr)
}

func ensureDockerDaemon(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := exec.CommandContext(ctx, "docker", "info").Run(); err != nil {
		t.Skip("docker daemon unavailable: " + err.Error())
	}
}
