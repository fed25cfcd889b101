//go:build integration

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"airline_assistant/internal/domain"
	mysqlrepo "airline_assistant/internal/storage/mysql"
)

func TestRepo_MySQL_InsertReview(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=airline_reviews",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/airline_reviews?parseTime=true&charset=utf8mb4",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxIdleConns(0)

	if _, err := db.Exec(mysqlrepo.CreateReviewsTableSQL); err != nil {
		t.Fatalf("create table: %v", err)
	}

	repo := mysqlrepo.New(db, 5*time.Second)
	ctx := context.Background()

	long := strings.Repeat("é", 1000)
	for _, rv := range []domain.ReviewRecord{
		{Airline: "Delta", Rating: "4.5", Review: "Great service"},
		{Airline: "Delta", Rating: "4.5", Review: "Great service"},
		{Airline: "KLM", Rating: "1", Review: long},
	} {
		if err := repo.InsertReview(ctx, rv); err != nil {
			t.Fatalf("InsertReview(%s): %v", rv.Airline, err)
		}
	}

	// identical submissions are stored twice
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM reviews WHERE airline = ?`, "Delta").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 Delta rows, got %d", n)
	}

	var rating, review string
	if err := db.QueryRow(`SELECT rating, review FROM reviews WHERE airline = ?`, "KLM").Scan(&rating, &review); err != nil {
		t.Fatalf("select: %v", err)
	}
	if rating != "1" || review != long {
		t.Fatalf("unexpected row: rating=%q len(review)=%d", rating, len([]rune(review)))
	}

	if s := db.Stats(); s.InUse != 0 {
		t.Fatalf("connections still in use: %d", s.InUse)
	}

	if err := repo.InsertReview(ctx, domain.ReviewRecord{Airline: "X", Rating: "2", Review: strings.Repeat("a", 1001)}); err == nil {
		t.Fatalf("expected storage error for oversize review")
	}
}
