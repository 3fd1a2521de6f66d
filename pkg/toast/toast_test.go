package toast_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vango-dev/pageglue/pkg/dom"
	"github.com/vango-dev/pageglue/pkg/notify"
	"github.com/vango-dev/pageglue/pkg/toast"
	"github.com/vango-dev/pageglue/pkg/vdom"
	"github.com/vango-dev/pageglue/pkg/vtest"
)

func TestPushAndDrain(t *testing.T) {
	q := toast.NewQueue(0)

	q.Success("a", "Saved")
	q.Warning("a", "Deleted beta")
	q.Info("b", "Hello")

	if q.Len("a") != 2 {
		t.Fatalf("Len(a) = %d, want 2", q.Len("a"))
	}

	got := q.Drain("a")
	if len(got) != 2 {
		t.Fatalf("Drain(a) returned %d toasts", len(got))
	}
	if got[0].Message != "Saved" || got[0].Severity != notify.SeveritySuccess {
		t.Errorf("first toast = %+v", got[0])
	}
	if got[1].Severity != notify.SeverityWarning {
		t.Errorf("second severity = %s", got[1].Severity)
	}
	if q.Len("a") != 0 {
		t.Error("drained key should be empty")
	}
	if q.Len("b") != 1 {
		t.Error("other keys must be untouched")
	}
}

func TestEmptyKeyIgnored(t *testing.T) {
	q := toast.NewQueue(0)
	q.Danger("", "lost")
	if q.Len("") != 0 {
		t.Error("empty key should not queue")
	}
}

func TestLimitDropsOldest(t *testing.T) {
	q := toast.NewQueue(2)
	q.Info("k", "one")
	q.Info("k", "two")
	q.Info("k", "three")

	got := q.Drain("k")
	if len(got) != 2 || got[0].Message != "two" || got[1].Message != "three" {
		t.Errorf("Drain = %+v", got)
	}
}

func TestShow(t *testing.T) {
	h := vtest.NewPage(vdom.Body(), vtest.WithNotifyConfig(notify.Config{Timeout: -1}))
	q := toast.NewQueue(0)
	q.Success("k", "Saved")
	q.Danger("k", "Failed")

	shown, err := q.Show("k", h.Notifier)
	if err != nil {
		t.Fatal(err)
	}
	if shown != 2 {
		t.Errorf("shown = %d, want 2", shown)
	}
	active := h.Notifier.Active()
	if len(active) != 2 || active[1].Severity != notify.SeverityDanger {
		t.Errorf("active = %+v", active)
	}
	vtest.ExpectElement(t, h.Doc, ".alert-success", 1)
	vtest.ExpectElement(t, h.Doc, ".alert-danger", 1)
	if q.Len("k") != 0 {
		t.Error("queue should be drained")
	}
}

func TestShowRequeuesOnFailure(t *testing.T) {
	n := notify.New(dom.New(nil), notify.Config{Timeout: -1})
	q := toast.NewQueue(0)
	q.Success("k", "ok")
	q.Push("k", toast.Toast{Severity: "bogus", Message: "bad"})
	q.Info("k", "later")

	shown, err := q.Show("k", n)
	if err == nil {
		t.Fatal("expected an error for the unknown severity")
	}
	if shown != 1 {
		t.Errorf("shown = %d, want 1", shown)
	}
	if q.Len("k") != 2 {
		t.Errorf("Len = %d, want 2 requeued", q.Len("k"))
	}
}

func TestKeyIssuesCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	key := toast.Key(rec, req)
	if key == "" {
		t.Fatal("Key returned empty")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != toast.CookieName || cookies[0].Value != key {
		t.Fatalf("cookies = %+v", cookies)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookies[0])
	rec2 := httptest.NewRecorder()
	if got := toast.Key(rec2, req2); got != key {
		t.Errorf("Key = %q, want %q", got, key)
	}
	if len(rec2.Result().Cookies()) != 0 {
		t.Error("existing cookie should not be reissued")
	}
}

func TestKeyOfRejectsForgedValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: toast.CookieName, Value: "not-a-uuid"})
	if got := toast.KeyOf(req); got != "" {
		t.Errorf("KeyOf = %q, want empty", got)
	}
}
