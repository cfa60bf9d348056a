package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/skillview/internal/domain/model"
	"github.com/okian/skillview/internal/session"
	"github.com/okian/skillview/pkg/metrics"
)

type fakeAPI struct {
	mu      sync.Mutex
	calls   atomic.Int32
	lastReq *http.Request
	body    []byte
	status  int
	reply   string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls.Add(1)
	f.lastReq = r
	f.body, _ = io.ReadAll(r.Body)
	if f.status != 0 {
		w.WriteHeader(f.status)
	}
	_, _ = io.WriteString(w, f.reply)
}

func newTestClient(t *testing.T, f *fakeAPI) (*Client, session.Store) {
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	store := session.NewMemory()
	return New(srv.URL+"/api", store), store
}

func TestCallAuthentication(t *testing.T) {
	Convey("Given a client with no stored credentials", t, func() {
		f := &fakeAPI{reply: "[]"}
		c, _ := newTestClient(t, f)

		Convey("When any operation runs", func() {
			_, err := c.ListProjects(context.Background())

			Convey("Then it fails unauthenticated without touching the network", func() {
				So(errors.Is(err, ErrUnauthenticated), ShouldBeTrue)
				So(IsAuth(err), ShouldBeTrue)
				So(f.calls.Load(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given stored credentials", t, func() {
		f := &fakeAPI{reply: "[]"}
		c, store := newTestClient(t, f)
		So(store.Save(context.Background(), "alice", "pw"), ShouldBeNil)

		Convey("When a call is made", func() {
			_, err := c.ListSkills(context.Background())
			So(err, ShouldBeNil)

			Convey("Then it carries the basic header for exactly that pair", func() {
				So(f.calls.Load(), ShouldEqual, 1)
				So(f.lastReq.URL.Path, ShouldEqual, "/api/skills")
				So(f.lastReq.Header.Get("Content-Type"), ShouldEqual, "application/json")
				user, pass, ok := f.lastReq.BasicAuth()
				So(ok, ShouldBeTrue)
				So(user, ShouldEqual, "alice")
				So(pass, ShouldEqual, "pw")
			})
		})

		Convey("When the server answers 401", func() {
			f.status = http.StatusUnauthorized
			f.reply = `{"message":"bad credentials"}`
			_, err := c.ListProjects(context.Background())

			Convey("Then the session is cleared and the error is session-expired only", func() {
				So(errors.Is(err, ErrSessionExpired), ShouldBeTrue)
				So(errors.Is(err, ErrRequestFailed), ShouldBeFalse)
				_, credErr := store.Credentials(context.Background())
				So(errors.Is(credErr, session.ErrNoCredentials), ShouldBeTrue)
				So(f.calls.Load(), ShouldEqual, 1)
			})

			Convey("Then the next call does not reach the network", func() {
				_, err := c.ListSkills(context.Background())
				So(errors.Is(err, ErrUnauthenticated), ShouldBeTrue)
				So(f.calls.Load(), ShouldEqual, 1)
			})
		})
	})
}

func TestCallFailures(t *testing.T) {
	Convey("Given an authenticated client", t, func() {
		f := &fakeAPI{}
		c, store := newTestClient(t, f)
		So(store.Save(context.Background(), "alice", "pw"), ShouldBeNil)

		Convey("When the server answers 500 with a message", func() {
			f.status = http.StatusInternalServerError
			f.reply = `{"message":"Skill not found"}`
			_, err := c.GenerateQuiz(context.Background(), 3)

			Convey("Then a RequestError carries status and message", func() {
				var re *RequestError
				So(errors.As(err, &re), ShouldBeTrue)
				So(re.Status, ShouldEqual, 500)
				So(re.Message, ShouldEqual, "Skill not found")
				So(errors.Is(err, ErrRequestFailed), ShouldBeTrue)
				So(Message(err), ShouldEqual, "Skill not found")
			})
		})

		Convey("When the server answers 400 without JSON", func() {
			f.status = http.StatusBadRequest
			f.reply = "nope"
			err := c.Call(context.Background(), http.MethodGet, "/anything", nil, nil)

			Convey("Then the fallback message is used", func() {
				So(Message(err), ShouldEqual, FallbackMessage)
				So(errors.Is(err, ErrRequestFailed), ShouldBeTrue)
			})
		})

		Convey("When the server is unreachable", func() {
			dead := httptest.NewServer(http.NotFoundHandler())
			dead.Close()
			c2 := New(dead.URL, store)
			_, err := c2.ListProjects(context.Background())

			Convey("Then a transport failure is reported with the generic message", func() {
				So(errors.Is(err, ErrTransport), ShouldBeTrue)
				So(Message(err), ShouldEqual, FallbackMessage)
				So(IsAuth(err), ShouldBeFalse)
			})
		})

		Convey("When a 2xx body is not valid JSON", func() {
			f.reply = "{"
			_, err := c.ListSkills(context.Background())
			So(errors.Is(err, ErrDecode), ShouldBeTrue)
		})
	})
}

func TestTypedOperations(t *testing.T) {
	Convey("Given an authenticated client", t, func() {
		f := &fakeAPI{}
		c, store := newTestClient(t, f)
		ctx := context.Background()
		So(store.Save(ctx, "alice", "pw"), ShouldBeNil)

		Convey("DeleteProject tolerates a plain text acknowledgement", func() {
			f.reply = "Project deleted successfully\n"
			msg, err := c.DeleteProject(ctx, 7)
			So(err, ShouldBeNil)
			So(msg, ShouldEqual, "Project deleted successfully")
			So(f.lastReq.Method, ShouldEqual, http.MethodDelete)
			So(f.lastReq.URL.Path, ShouldEqual, "/api/projects/7")
		})

		Convey("UploadProject sends the form as JSON and decodes the ack", func() {
			f.reply = `{"project":{"id":9,"name":"demo","uploadedAt":"2024-03-01T10:15:30","totalFiles":1,"totalSizeKb":2},"skills":[],"message":"ok"}`
			ack, err := c.UploadProject(ctx, model.UploadRequest{
				ProjectName: "demo",
				Files:       []model.FileSubmission{{Filename: "a.go", Content: "package a", Extension: "go"}},
			})
			So(err, ShouldBeNil)
			So(ack.Project.ID, ShouldEqual, 9)
			So(ack.Message, ShouldEqual, "ok")

			var sent model.UploadRequest
			So(json.Unmarshal(f.body, &sent), ShouldBeNil)
			So(sent.ProjectName, ShouldEqual, "demo")
			So(sent.Files[0].Extension, ShouldEqual, "go")
			So(f.lastReq.URL.Path, ShouldEqual, "/api/projects/upload")
		})

		Convey("SubmitQuiz posts answers keyed by question number", func() {
			f.reply = `{"score":67,"correctAnswers":2,"totalQuestions":3,"achievedLevel":"GOOD","levelDisplay":"🟩 GOOD (61-85%)"}`
			res, err := c.SubmitQuiz(ctx, model.QuizSubmission{SkillID: 4, Answers: []model.Answer{{QuestionNumber: 5, SelectedAnswer: "B"}}})
			So(err, ShouldBeNil)
			So(res.AchievedLevel, ShouldEqual, model.LevelGood)
			So(string(f.body), ShouldEqual, `{"skillId":4,"answers":[{"questionNumber":5,"selectedAnswer":"B"}]}`)
		})

		Convey("GenerateQuiz and LatestResult hit their paths", func() {
			f.reply = `{"skillName":"Go","questions":[{"number":1,"text":"?","options":["A) x","B) y"]}]}`
			q, err := c.GenerateQuiz(ctx, 12)
			So(err, ShouldBeNil)
			So(q.Questions, ShouldHaveLength, 1)
			So(f.lastReq.Method, ShouldEqual, http.MethodPost)
			So(f.lastReq.URL.Path, ShouldEqual, "/api/quiz/generate/12")

			f.reply = `{"skillId":12,"score":90,"achievedLevel":"EXPERT","completedAt":"2024-03-01T10:15:30.5"}`
			r, err := c.LatestResult(ctx, 12)
			So(err, ShouldBeNil)
			So(r.CompletedAt, ShouldNotBeNil)
			So(f.lastReq.URL.Path, ShouldEqual, "/api/quiz/results/12")
		})

		Convey("CheckAuth returns the server's username", func() {
			f.reply = `{"username":"alice"}`
			name, err := c.CheckAuth(ctx)
			So(err, ShouldBeNil)
			So(name, ShouldEqual, "alice")
		})
	})
}

func TestCallMetrics(t *testing.T) {
	Convey("Given a client recording metrics", t, func() {
		f := &fakeAPI{reply: "[]"}
		srv := httptest.NewServer(f)
		defer srv.Close()
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(metrics.WithPrometheusRegistry(reg))
		store := session.NewMemory()
		So(store.Save(context.Background(), "alice", "pw"), ShouldBeNil)
		c := New(srv.URL, store, WithMetrics(m))

		_, err := c.DeleteProject(context.Background(), 1)
		So(err, ShouldBeNil)

		Convey("Then the endpoint is labelled by its template", func() {
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			found := false
			for _, fam := range families {
				for _, metric := range fam.GetMetric() {
					for _, lp := range metric.GetLabel() {
						if lp.GetName() == "endpoint" && lp.GetValue() == "/projects/{id}" {
							found = true
						}
					}
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}
