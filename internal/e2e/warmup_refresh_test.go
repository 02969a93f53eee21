package e2e

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"

	"github.com/qayd-erp/qayd/internal/accounting"
	"github.com/qayd-erp/qayd/internal/accounting/accounts"
	"github.com/qayd-erp/qayd/internal/accounting/reports"
	jobmetrics "github.com/qayd-erp/qayd/internal/jobs"
	"github.com/qayd-erp/qayd/jobs"
	_ "github.com/qayd-erp/qayd/testing"
)

type stubReportStore struct {
	balanceCalls int
	balances     []reports.AccountBalance
	err          error
}

func (s *stubReportStore) GetAccount(_ context.Context, code string) (accounts.Account, error) {
	return accounts.Account{Code: code}, nil
}

func (s *stubReportStore) ListJournal(_ context.Context, _ accounting.JournalFilters) ([]accounting.JournalRow, error) {
	return nil, nil
}

func (s *stubReportStore) AccountBalances(_ context.Context, _ accounting.ReportWindow) ([]reports.AccountBalance, error) {
	s.balanceCalls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]reports.AccountBalance(nil), s.balances...), nil
}

func (s *stubReportStore) AccountActivity(_ context.Context, _ string, _ accounting.ReportWindow) (decimal.Decimal, []reports.LedgerEntry, error) {
	return decimal.Zero, nil, nil
}

func TestReportsWarmupJobEndToEnd(t *testing.T) {
	store := &stubReportStore{
		balances: []reports.AccountBalance{
			{Code: "1-01-01-001-001", Name: "Cash on Hand", Side: accounts.SideDebit, Debit: decimal.NewFromInt(1000)},
			{Code: "4-01-01-001-000", Name: "Sales Revenue", Side: accounts.SideCredit, Credit: decimal.NewFromInt(1000)},
		},
	}
	service := accounting.NewService(store, nil)
	reg := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(reg)

	job := jobs.NewReportsWarmupJob(service, nil, metrics)
	task, err := jobs.NewReportsWarmupTask(jobs.ReportsWarmupPayload{})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := job.Handle(context.Background(), task); err != nil {
		t.Fatalf("job handle: %v", err)
	}
	// Trial balance, income statement and balance sheet each read balances once.
	if store.balanceCalls != 3 {
		t.Fatalf("expected 3 balance reads, got %d", store.balanceCalls)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if !assertCounter(t, families, "qayd_jobs_total", map[string]string{"job": jobs.TaskReportsWarmup, "status": "success"}, 1) {
		t.Fatalf("expected qayd_jobs_total increment for reports warmup")
	}
	if !metricExists(families, "qayd_job_duration_seconds") {
		t.Fatalf("expected qayd_job_duration_seconds to be recorded")
	}
}

func TestReportsWarmupJobRecordsFailure(t *testing.T) {
	store := &stubReportStore{err: context.DeadlineExceeded}
	service := accounting.NewService(store, nil)
	reg := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(reg)

	job := jobs.NewReportsWarmupJob(service, nil, metrics)
	task, err := jobs.NewReportsWarmupTask(jobs.ReportsWarmupPayload{})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := job.Handle(context.Background(), task); err == nil {
		t.Fatal("expected warmup to surface the store error")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if !assertCounter(t, families, "qayd_jobs_total", map[string]string{"job": jobs.TaskReportsWarmup, "status": "failure"}, 1) {
		t.Fatalf("expected failure counter for reports warmup")
	}
	if !assertCounter(t, families, "qayd_jobs_failures_total", map[string]string{"job": jobs.TaskReportsWarmup}, 1) {
		t.Fatalf("expected qayd_jobs_failures_total increment")
	}
}

func assertCounter(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string, expected float64) bool {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if matchLabels(metric.GetLabel(), labels) {
				if metric.GetCounter() == nil {
					return false
				}
				if metric.GetCounter().GetValue() == expected {
					return true
				}
			}
		}
	}
	return false
}

func metricExists(families []*dto.MetricFamily, name string) bool {
	for _, fam := range families {
		if fam.GetName() == name {
			return true
		}
	}
	return false
}

func matchLabels(pairs []*dto.LabelPair, expected map[string]string) bool {
	if len(expected) == 0 {
		return true
	}
	seen := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		seen[pair.GetName()] = pair.GetValue()
	}
	for k, v := range expected {
		if seen[k] != v {
			return false
		}
	}
	return true
}
