package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ntokozo078/logistics-fleet-manager/internal/domain/job"
	"github.com/ntokozo078/logistics-fleet-manager/internal/observability"
)

type JobsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewJobsRepo(pool *pgxpool.Pool, prom *observability.Prom) *JobsRepo {
	return &JobsRepo{pool: pool, prom: prom}
}

func (r *JobsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// JobWithDriver carries the joined driver username for list views and the
// CSV export; nil when the job is unassigned.
type JobWithDriver struct {
	job.Job
	DriverUsername *string
}

// Stats feeds the management dashboard tiles.
type Stats struct {
	Active    int
	Delayed   int
	Completed int
}

const jobColumns = `j.id, j.client_name, j.pickup, j.dropoff, j.due_date, j.driver_id,
	j.status, j.driver_note, j.pod_image_url, j.created_at, j.updated_at`

func scanJob(row pgx.Row) (job.Job, error) {
	var j job.Job

	err := row.Scan(
		&j.ID,
		&j.ClientName,
		&j.Pickup,
		&j.Dropoff,
		&j.DueDate,
		&j.DriverID,
		&j.Status,
		&j.DriverNote,
		&j.PODImageURL,
		&j.CreatedAt,
		&j.UpdatedAt,
	)

	return j, err
}

func (r *JobsRepo) Create(ctx context.Context, req job.CreateRequest) (job.Job, error) {
	j := job.New(req)

	err := r.observe("jobs.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO jobs (id, client_name, pickup, dropoff, due_date, driver_id,
				status, driver_note, pod_image_url, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			j.ID, j.ClientName, j.Pickup, j.Dropoff, j.DueDate, j.DriverID,
			j.Status, j.DriverNote, j.PODImageURL, j.CreatedAt, j.UpdatedAt,
		)

		return err
	})

	if err != nil {
		return job.Job{}, err
	}

	return j, nil
}

func (r *JobsRepo) GetByID(ctx context.Context, id string) (job.Job, error) {
	var j job.Job

	err := r.observe("jobs.get_by_id", func() error {
		var err error

		j, err = scanJob(r.pool.QueryRow(
			ctx,
			`SELECT `+jobColumns+` FROM jobs j WHERE j.id = $1`,
			id,
		))

		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}

		return job.Job{}, err
	}

	return j, nil
}

// Update overwrites status and note unconditionally; the POD reference only
// changes when the request carries a new one. Last commit wins.
func (r *JobsRepo) Update(ctx context.Context, id string, req job.UpdateRequest) (job.Job, error) {
	var j job.Job

	err := r.observe("jobs.update", func() error {
		var err error

		j, err = scanJob(r.pool.QueryRow(
			ctx,
			`UPDATE jobs
				SET status = $2,
					driver_note = $3,
					pod_image_url = COALESCE($4, pod_image_url),
					updated_at = NOW()
			 WHERE id = $1
			 RETURNING id, client_name, pickup, dropoff, due_date, driver_id,
				status, driver_note, pod_image_url, created_at, updated_at`,
			id,
			req.Status,
			req.DriverNote,
			req.PODImageURL,
		))

		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}

		return job.Job{}, err
	}

	return j, nil
}

// ListAll returns every job with its driver username, newest first.
func (r *JobsRepo) ListAll(ctx context.Context) ([]JobWithDriver, error) {
	return r.listWithDriver(ctx, "jobs.list_all",
		`SELECT `+jobColumns+`, u.username
		 FROM jobs j
		 LEFT JOIN users u ON u.id = j.driver_id
		 ORDER BY j.created_at DESC`)
}

// ListCreatedSince filters on created_at for the CSV export. A nil start
// means no window (period=all).
func (r *JobsRepo) ListCreatedSince(ctx context.Context, start *time.Time) ([]JobWithDriver, error) {
	if start == nil {
		return r.ListAll(ctx)
	}

	return r.listWithDriver(ctx, "jobs.list_created_since",
		`SELECT `+jobColumns+`, u.username
		 FROM jobs j
		 LEFT JOIN users u ON u.id = j.driver_id
		 WHERE j.created_at >= $1
		 ORDER BY j.created_at DESC`, *start)
}

// ListActiveForDriver is the driver's work queue: everything not yet
// delivered, ordered by the due-date display string.
func (r *JobsRepo) ListActiveForDriver(ctx context.Context, driverID string) ([]job.Job, error) {
	return r.list(ctx, "jobs.list_active_for_driver",
		`SELECT `+jobColumns+`
		 FROM jobs j
		 WHERE j.driver_id = $1 AND j.status <> $2
		 ORDER BY j.due_date`, driverID, job.StatusDelivered)
}

func (r *JobsRepo) ListDeliveredForDriver(ctx context.Context, driverID string) ([]job.Job, error) {
	return r.list(ctx, "jobs.list_delivered_for_driver",
		`SELECT `+jobColumns+`
		 FROM jobs j
		 WHERE j.driver_id = $1 AND j.status = $2
		 ORDER BY j.created_at DESC`, driverID, job.StatusDelivered)
}

// CountStats computes the dashboard tiles in one pass.
func (r *JobsRepo) CountStats(ctx context.Context) (Stats, error) {
	var s Stats

	err := r.observe("jobs.count_stats", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT
				COUNT(*) FILTER (WHERE status NOT IN ($1, $2)),
				COUNT(*) FILTER (WHERE status = $3),
				COUNT(*) FILTER (WHERE status = $4)
			 FROM jobs`,
			job.StatusDelivered, job.StatusCreated, job.StatusIssue, job.StatusDelivered,
		).Scan(&s.Active, &s.Delayed, &s.Completed)
	})

	if err != nil {
		return Stats{}, err
	}

	return s, nil
}

func (r *JobsRepo) list(ctx context.Context, op, query string, args ...any) ([]job.Job, error) {
	var out []job.Job

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			j, err := scanJob(rows)

			if err != nil {
				return err
			}

			out = append(out, j)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *JobsRepo) listWithDriver(ctx context.Context, op, query string, args ...any) ([]JobWithDriver, error) {
	var out []JobWithDriver

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var jd JobWithDriver

			err = rows.Scan(
				&jd.ID,
				&jd.ClientName,
				&jd.Pickup,
				&jd.Dropoff,
				&jd.DueDate,
				&jd.DriverID,
				&jd.Status,
				&jd.DriverNote,
				&jd.PODImageURL,
				&jd.CreatedAt,
				&jd.UpdatedAt,
				&jd.DriverUsername,
			)

			if err != nil {
				return err
			}

			out = append(out, jd)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
