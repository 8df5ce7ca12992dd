package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/kanbanhq/kanban-api/internal/api/metrics"
	"github.com/kanbanhq/kanban-api/internal/core/domain"
	"github.com/kanbanhq/kanban-api/internal/core/ports"
	"github.com/kanbanhq/kanban-api/pkg/logger"
)

type listFixture struct {
	svc   *ListService
	users *stubUserRepo
	lists *stubListRepo
	cards *stubCardRepo
	pub   *recordingPublisher
}

func newListFixture() *listFixture {
	users := newStubUserRepo()
	lists := newStubListRepo()
	cards := newStubCardRepo()
	pub := &recordingPublisher{}
	return &listFixture{
		svc:   NewListService(users, lists, cards, pub, logger.Discard()),
		users: users,
		lists: lists,
		cards: cards,
		pub:   pub,
	}
}

func TestListService_CreateAndListMine(t *testing.T) {
	f := newListFixture()
	owner := seedUser(t, f.users, "alice@example.com", domain.RoleUser)
	other := seedUser(t, f.users, "bob@example.com", domain.RoleUser)

	list, err := f.svc.Create(context.Background(), owner.Email, ports.CreateListInput{Title: "  todo  ", Position: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if list.Title != "todo" {
		t.Fatalf("title not trimmed: %q", list.Title)
	}
	if list.OwnerID != owner.ID {
		t.Fatalf("owner not set: %s", list.OwnerID)
	}
	if evt := f.pub.last(); evt == nil || evt.EventType != domain.EventListCreated {
		t.Fatalf("expected ListCreated event, got %+v", evt)
	}

	mine, err := f.svc.ListMine(context.Background(), owner.Email)
	if err != nil {
		t.Fatalf("list mine failed: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 list, got %d", len(mine))
	}

	theirs, err := f.svc.ListMine(context.Background(), other.Email)
	if err != nil {
		t.Fatalf("list mine failed: %v", err)
	}
	if len(theirs) != 0 {
		t.Fatalf("expected no lists for other user, got %d", len(theirs))
	}
}

func TestListService_Get_Authorization(t *testing.T) {
	f := newListFixture()
	owner := seedUser(t, f.users, "alice@example.com", domain.RoleUser)
	other := seedUser(t, f.users, "bob@example.com", domain.RoleUser)
	admin := seedUser(t, f.users, "root@example.com", domain.RoleAdmin)

	list, _ := f.svc.Create(context.Background(), owner.Email, ports.CreateListInput{Title: "todo"})

	if _, err := f.svc.Get(context.Background(), other.Email, list.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Get(context.Background(), admin.Email, list.ID); err != nil {
		t.Fatalf("admin read denied: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), owner.Email, "missing"); !errors.Is(err, domain.ErrListNotFound) {
		t.Fatalf("expected ErrListNotFound, got %v", err)
	}
}

func TestListService_Delete_CascadesCards(t *testing.T) {
	f := newListFixture()
	owner := seedUser(t, f.users, "alice@example.com", domain.RoleUser)

	list, _ := f.svc.Create(context.Background(), owner.Email, ports.CreateListInput{Title: "todo"})
	_, _ = f.cards.Create(context.Background(), &domain.Card{Title: "a", ListID: list.ID, OwnerID: owner.ID})
	_, _ = f.cards.Create(context.Background(), &domain.Card{Title: "b", ListID: list.ID, OwnerID: owner.ID})

	if err := f.svc.Delete(context.Background(), owner.Email, list.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	left, _ := f.cards.FindByList(context.Background(), list.ID)
	if len(left) != 0 {
		t.Fatalf("cards not cascaded: %d left", len(left))
	}
	if evt := f.pub.last(); evt == nil || evt.EventType != domain.EventListDeleted {
		t.Fatalf("expected ListDeleted event, got %+v", evt)
	}
}

func TestListService_Delete_NonOwnerForbidden(t *testing.T) {
	f := newListFixture()
	owner := seedUser(t, f.users, "alice@example.com", domain.RoleUser)
	other := seedUser(t, f.users, "bob@example.com", domain.RoleUser)

	list, _ := f.svc.Create(context.Background(), owner.Email, ports.CreateListInput{Title: "todo"})

	if err := f.svc.Delete(context.Background(), other.Email, list.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestListService_Update_PublishesEvent(t *testing.T) {
	f := newListFixture()
	owner := seedUser(t, f.users, "alice@example.com", domain.RoleUser)

	list, _ := f.svc.Create(context.Background(), owner.Email, ports.CreateListInput{Title: "todo", Position: 1})

	if _, err := f.svc.Update(context.Background(), owner.Email, list.ID, ports.UpdateListInput{Title: strptr("doing")}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if got := len(f.pub.events); got != 2 {
		t.Fatalf("expected create+update events, got %d", got)
	}
	evt := f.pub.last()
	if evt.EventType != domain.EventListUpdated {
		t.Fatalf("expected %s event, got %s", domain.EventListUpdated, evt.EventType)
	}
	if evt.Data["title"] != "doing" || evt.Data["listId"] != list.ID {
		t.Fatalf("unexpected event data: %+v", evt.Data)
	}
	if evt.Metadata["userId"] != owner.ID {
		t.Fatalf("expected requester id in metadata, got %v", evt.Metadata["userId"])
	}
}

func TestListService_Update_NoopEmitsNothing(t *testing.T) {
	f := newListFixture()
	owner := seedUser(t, f.users, "alice@example.com", domain.RoleUser)

	list, _ := f.svc.Create(context.Background(), owner.Email, ports.CreateListInput{Title: "todo", Position: 1})

	// Empty patch: nothing persisted, nothing announced.
	if _, err := f.svc.Update(context.Background(), owner.Email, list.ID, ports.UpdateListInput{}); err != nil {
		t.Fatalf("noop update failed: %v", err)
	}
	if got := len(f.pub.events); got != 1 {
		t.Fatalf("expected only the create event, got %d", got)
	}
}

// mutationCount reads the sample count of one mutation histogram child.
func mutationCount(t *testing.T, resource, action string) uint64 {
	t.Helper()
	obs, err := metrics.MutationDuration.GetMetricWithLabelValues(resource, action)
	if err != nil {
		t.Fatalf("metric lookup: %v", err)
	}
	var pb dto.Metric
	if err := obs.(prometheus.Metric).Write(&pb); err != nil {
		t.Fatalf("metric write: %v", err)
	}
	return pb.GetHistogram().GetSampleCount()
}

func TestListService_Update_RecordsMutationDuration(t *testing.T) {
	f := newListFixture()
	owner := seedUser(t, f.users, "alice@example.com", domain.RoleUser)
	list, _ := f.svc.Create(context.Background(), owner.Email, ports.CreateListInput{Title: "todo", Position: 1})

	before := mutationCount(t, "list", "update")
	if _, err := f.svc.Update(context.Background(), owner.Email, list.ID, ports.UpdateListInput{Position: intptr(3)}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if after := mutationCount(t, "list", "update"); after != before+1 {
		t.Fatalf("expected one observation, got %d -> %d", before, after)
	}
}

func TestListService_Update_PartialPatch(t *testing.T) {
	f := newListFixture()
	owner := seedUser(t, f.users, "alice@example.com", domain.RoleUser)

	list, _ := f.svc.Create(context.Background(), owner.Email, ports.CreateListInput{Title: "todo", Position: 2})

	updated, err := f.svc.Update(context.Background(), owner.Email, list.ID, ports.UpdateListInput{Position: intptr(9)})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "todo" || updated.Position != 9 {
		t.Fatalf("patch applied incorrectly: %+v", updated)
	}
}
