package task_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/frahmantamala/task-gamification/internal/achievement"
	achievementPostgres "github.com/frahmantamala/task-gamification/internal/achievement/postgres"
	"github.com/frahmantamala/task-gamification/internal/auth"
	"github.com/frahmantamala/task-gamification/internal/core/datamodel/sqlitetest"
	userDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/user"
	"github.com/frahmantamala/task-gamification/internal/task"
	taskPostgres "github.com/frahmantamala/task-gamification/internal/task/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Task Handler Integration", func() {
	var (
		db       *gorm.DB
		router   chi.Router
		manager  *auth.Session
		employee *auth.Session
	)

	do := func(method, path string, s *auth.Session, body interface{}) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != nil {
			payload, _ := json.Marshal(body)
			reader = bytes.NewReader(payload)
		}
		req := httptest.NewRequest(method, path, reader)
		if s != nil {
			req = req.WithContext(auth.ContextWithSession(context.Background(), s))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		db, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())
		_, err = achievementPostgres.NewRepository(db).Seed(context.Background(), achievement.Catalogue())
		Expect(err).NotTo(HaveOccurred())

		m := userDatamodel.User{Email: "m@example.com", Name: "M", PasswordHash: "x", Role: userDatamodel.RoleManager}
		e := userDatamodel.User{Email: "e@example.com", Name: "E", PasswordHash: "x", Role: userDatamodel.RoleEmployee}
		Expect(db.Create(&m).Error).To(Succeed())
		Expect(db.Create(&e).Error).To(Succeed())
		manager = &auth.Session{UserID: m.ID, Role: auth.RoleManager}
		employee = &auth.Session{UserID: e.ID, Role: auth.RoleEmployee}

		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := task.NewService(taskPostgres.NewTaskRepository(db), nil, lg)
		handler := task.NewHandler(service)

		router = chi.NewRouter()
		router.Post("/tasks", handler.CreateTask)
		router.Get("/tasks", handler.ListTasks)
		router.Get("/tasks/{id}", handler.GetTask)
		router.Post("/tasks/{id}/assign", handler.AssignTask)
		router.Post("/tasks/{id}/complete", handler.CompleteTask)
	})

	AfterEach(func() {
		sqlitetest.Close(db)
	})

	It("runs a task from creation to completion", func() {
		w := do(http.MethodPost, "/tasks", manager, task.CreateTaskDTO{Title: "Ship it", Description: "Release 1.0", Points: 10})
		Expect(w.Code).To(Equal(http.StatusCreated))
		var created task.Task
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())

		w = do(http.MethodPost, "/tasks/"+itoa(created.ID)+"/assign", employee, nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodPost, "/tasks/"+itoa(created.ID)+"/complete", employee, nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var result map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&result)).To(Succeed())
		Expect(result).To(HaveKey("task"))
		Expect(result["pointsEarned"]).To(BeNumerically("==", 60))
		Expect(result["newAchievements"]).To(HaveLen(1))

		w = do(http.MethodPost, "/tasks/"+itoa(created.ID)+"/complete", employee, nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("Task is already completed"))
	})

	It("rejects completion by someone else with 400", func() {
		w := do(http.MethodPost, "/tasks", manager, task.CreateTaskDTO{Title: "Ship it", Description: "Release 1.0", Points: 10})
		var created task.Task
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		do(http.MethodPost, "/tasks/"+itoa(created.ID)+"/assign", employee, nil)

		w = do(http.MethodPost, "/tasks/"+itoa(created.ID)+"/complete", manager, nil)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("You are not assigned to this task"))
	})

	It("returns 401 without a session", func() {
		w := do(http.MethodPost, "/tasks/1/complete", nil, nil)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("returns 404 for an unknown task", func() {
		w := do(http.MethodGet, "/tasks/12345", employee, nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("Task not found"))
	})

	It("rejects a malformed id", func() {
		w := do(http.MethodGet, "/tasks/abc", employee, nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("lists tasks assigned to the caller", func() {
		for i := 0; i < 2; i++ {
			do(http.MethodPost, "/tasks", manager, task.CreateTaskDTO{Title: "t", Description: "d", Points: 5})
		}
		do(http.MethodPost, "/tasks/1/assign", employee, nil)

		w := do(http.MethodGet, "/tasks?assignedToMe=true", employee, nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp task.TasksResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Tasks).To(HaveLen(1))
		Expect(resp.Tasks[0].ID).To(Equal(int64(1)))
	})
})

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
