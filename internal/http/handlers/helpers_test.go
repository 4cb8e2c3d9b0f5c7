package handlers_test

import (
	"context"
	"html/template"
	"mime/multipart"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ntokozo078/logistics-fleet-manager/internal/domain/job"
	"github.com/ntokozo078/logistics-fleet-manager/internal/domain/user"
	"github.com/ntokozo078/logistics-fleet-manager/internal/queue"
	"github.com/ntokozo078/logistics-fleet-manager/internal/repo/postgres"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Handlers render named templates, so test routers get a minimal set where
// each page is just its own name.
var testTemplates = template.Must(template.New("").Parse(`
{{define "landing.html"}}landing{{end}}
{{define "login.html"}}login{{end}}
{{define "dashboard_admin.html"}}dashboard_admin{{end}}
{{define "dashboard_driver.html"}}dashboard_driver{{end}}
{{define "create_job.html"}}create_job{{end}}
{{define "create_driver.html"}}create_driver{{end}}
{{define "update_job.html"}}update_job{{end}}
{{define "job_details.html"}}job_details{{end}}
`))

func newTestRouter() *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(testTemplates)
	return r
}

func strptr(s string) *string {
	return &s
}

// Fake user store covering the reader, directory and writer interfaces.

type fakeUsersRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (user.User, error)
	getByIDFn       func(ctx context.Context, id string) (user.User, error)
	listDriversFn   func(ctx context.Context) ([]user.User, error)
	createFn        func(ctx context.Context, u user.User) (user.User, error)
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	if f.getByUsernameFn != nil {
		return f.getByUsernameFn(ctx, username)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) ListDrivers(ctx context.Context) ([]user.User, error) {
	if f.listDriversFn != nil {
		return f.listDriversFn(ctx)
	}
	return []user.User{}, nil
}

func (f *fakeUsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return u, nil
}

// Fake session store covering the writer and checker interfaces.

type fakeSessionStore struct {
	createFn func(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	getFn    func(ctx context.Context, sessionID string) (string, error)
	deleteFn func(ctx context.Context, sessionID string) error
}

func (f *fakeSessionStore) Create(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	if f.createFn != nil {
		return f.createFn(ctx, sessionID, userID, ttl)
	}
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	if f.getFn != nil {
		return f.getFn(ctx, sessionID)
	}
	return "", nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, sessionID string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, sessionID)
	}
	return nil
}

// Fake jobs store covering the board, store and exporter interfaces.

type fakeJobsRepo struct {
	createFn           func(ctx context.Context, req job.CreateRequest) (job.Job, error)
	getFn              func(ctx context.Context, id string) (job.Job, error)
	updateFn           func(ctx context.Context, id string, req job.UpdateRequest) (job.Job, error)
	listAllFn          func(ctx context.Context) ([]postgres.JobWithDriver, error)
	listActiveFn       func(ctx context.Context, driverID string) ([]job.Job, error)
	listDeliveredFn    func(ctx context.Context, driverID string) ([]job.Job, error)
	countStatsFn       func(ctx context.Context) (postgres.Stats, error)
	listCreatedSinceFn func(ctx context.Context, start *time.Time) ([]postgres.JobWithDriver, error)
}

func (f *fakeJobsRepo) Create(ctx context.Context, req job.CreateRequest) (job.Job, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return job.New(req), nil
}

func (f *fakeJobsRepo) GetByID(ctx context.Context, id string) (job.Job, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return job.Job{}, job.ErrNotFound
}

func (f *fakeJobsRepo) Update(ctx context.Context, id string, req job.UpdateRequest) (job.Job, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return job.Job{}, job.ErrNotFound
}

func (f *fakeJobsRepo) ListAll(ctx context.Context) ([]postgres.JobWithDriver, error) {
	if f.listAllFn != nil {
		return f.listAllFn(ctx)
	}
	return []postgres.JobWithDriver{}, nil
}

func (f *fakeJobsRepo) ListActiveForDriver(ctx context.Context, driverID string) ([]job.Job, error) {
	if f.listActiveFn != nil {
		return f.listActiveFn(ctx, driverID)
	}
	return []job.Job{}, nil
}

func (f *fakeJobsRepo) ListDeliveredForDriver(ctx context.Context, driverID string) ([]job.Job, error) {
	if f.listDeliveredFn != nil {
		return f.listDeliveredFn(ctx, driverID)
	}
	return []job.Job{}, nil
}

func (f *fakeJobsRepo) CountStats(ctx context.Context) (postgres.Stats, error) {
	if f.countStatsFn != nil {
		return f.countStatsFn(ctx)
	}
	return postgres.Stats{}, nil
}

func (f *fakeJobsRepo) ListCreatedSince(ctx context.Context, start *time.Time) ([]postgres.JobWithDriver, error) {
	if f.listCreatedSinceFn != nil {
		return f.listCreatedSinceFn(ctx, start)
	}
	return []postgres.JobWithDriver{}, nil
}

// Fake upload saver covering the POD and driver photo interfaces.

type fakeUploadSaver struct {
	savePODFn         func(file *multipart.FileHeader, jobID string) (string, error)
	saveDriverPhotoFn func(file *multipart.FileHeader, username string) (string, error)
}

func (f *fakeUploadSaver) SavePOD(file *multipart.FileHeader, jobID string) (string, error) {
	if f.savePODFn != nil {
		return f.savePODFn(file, jobID)
	}
	return "/static/uploads/pod_" + jobID + ".png", nil
}

func (f *fakeUploadSaver) SaveDriverPhoto(file *multipart.FileHeader, username string) (string, error) {
	if f.saveDriverPhotoFn != nil {
		return f.saveDriverPhotoFn(file, username)
	}
	return "/static/uploads/driver_" + username + ".png", nil
}

type enqueuedMessage struct {
	kind    queue.MessageKind
	payload any
}

type fakeEnqueuer struct {
	enqueueFn func(ctx context.Context, kind queue.MessageKind, payload any, requestID string) error
	messages  []enqueuedMessage
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, kind queue.MessageKind, payload any, requestID string) error {
	f.messages = append(f.messages, enqueuedMessage{kind: kind, payload: payload})

	if f.enqueueFn != nil {
		return f.enqueueFn(ctx, kind, payload, requestID)
	}
	return nil
}
