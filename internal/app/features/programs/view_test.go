package programs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/system/localstate"
	"github.com/sila-platform/siladesk/internal/app/system/session"
	"github.com/sila-platform/siladesk/internal/app/system/transport"
)

func TestView_ReloadsOnAuthChange(t *testing.T) {
	var gets atomic.Int64
	r := chi.NewRouter()
	r.Get(CollectionPath, func(w http.ResponseWriter, _ *http.Request) {
		gets.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	state := localstate.NewMemStore()
	log := zap.NewNop()
	sess := session.NewStore(state, log)
	v := NewView(transport.New(srv.URL, state, log), sess, log)

	if err := v.Mount(context.Background()); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if n := gets.Load(); n != 1 {
		t.Fatalf("fetches after mount = %d, want 1", n)
	}

	// A session change while mounted re-fetches on its own.
	if err := sess.SetSession("tok", "", &session.Profile{IsStaff: true, FirstName: "Ministry of Health"}); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for gets.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("no re-fetch after auth change")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// After unmount the view stops listening.
	v.Unmount()
	before := gets.Load()
	sess.ClearSession()
	time.Sleep(50 * time.Millisecond)
	if n := gets.Load(); n != before {
		t.Errorf("fetches after unmount = %d, want %d", n, before)
	}
}
