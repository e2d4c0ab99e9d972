package repository

import (
	"strings"
	"testing"
)

func TestConflictQueryIsTenantScoped(t *testing.T) {
	query := strings.ToLower(conflictCandidatesQuery)

	requiredFragments := []string{
		"where a.shop_id = $1",
		"a.deleted_at is null",
		"a.status not in ('cancelled', 'no_show')",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected conflict query fragment %q to be present", fragment)
		}
	}
}

func TestConflictQueryAggregatesLineItemDurations(t *testing.T) {
	query := strings.ToLower(conflictCandidatesQuery)

	requiredFragments := []string{
		"left join appointment_services li on li.appointment_id = a.id",
		"left join services s on s.id = li.service_id",
		"sum(s.duration_minutes * li.quantity)",
		"having",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected duration aggregation fragment %q to be present", fragment)
		}
	}
}

func TestCompleteQueryRecomputesTotalFromLineItems(t *testing.T) {
	query := strings.ToLower(completeQuery)

	requiredFragments := []string{
		"status = 'completed'",
		"sum(li.price_cents * li.quantity)",
		"shop_id = $2",
		"deleted_at is null",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected completion query fragment %q to be present", fragment)
		}
	}
}

func TestTransitionQueriesAssertSourceStatus(t *testing.T) {
	for name, query := range map[string]string{
		"update status": updateStatusQuery,
		"complete":      completeQuery,
	} {
		if !strings.Contains(strings.ToLower(query), "status = $3") {
			t.Fatalf("%s query must assert the source status so racing transitions cannot both land", name)
		}
	}
}

func TestDayScheduleQueryExcludesInactiveStatuses(t *testing.T) {
	query := strings.ToLower(daySlotsQuery)

	if !strings.Contains(query, "a.status not in ('cancelled', 'no_show')") {
		t.Fatal("day schedule query must exclude cancelled and no-show appointments")
	}
	if !strings.Contains(query, "a.deleted_at is null") {
		t.Fatal("day schedule query must exclude soft-deleted appointments")
	}
}

func TestLookupQueriesExcludeSoftDeletedRows(t *testing.T) {
	for name, query := range map[string]string{
		"get":  getAppointmentQuery,
		"done": completeQuery,
	} {
		if !strings.Contains(strings.ToLower(query), "deleted_at is null") {
			t.Fatalf("%s query must exclude soft-deleted rows", name)
		}
	}
}
