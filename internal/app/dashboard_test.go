package app

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/skillview/internal/adapters/api"
	"github.com/okian/skillview/internal/domain/model"
	"github.com/okian/skillview/internal/session"
	"github.com/okian/skillview/internal/ui"
	"github.com/okian/skillview/internal/ui/uitest"
	"github.com/okian/skillview/internal/view"
)

func TestDashboard(t *testing.T) {
	ctx := context.Background()

	Convey("Given a dashboard", t, func() {
		f := newFakeAPI()
		f.skills = []model.Skill{
			{ID: 1, Name: "Spring", Category: "BACKEND", CategoryDisplayName: "Backend", Level: "garbage"},
		}
		store := session.NewMemory()
		rec := uitest.New(true)
		d := NewDashboard(f, store, rec.UI())

		Convey("When it loads without credentials", func() {
			err := d.Load(ctx)

			Convey("Then it goes to login and fetches nothing", func() {
				So(errors.Is(err, api.ErrUnauthenticated), ShouldBeTrue)
				login, _ := rec.Navigations()
				So(login, ShouldEqual, 1)
				So(f.count("projects")+f.count("skills"), ShouldEqual, 0)
			})
		})

		Convey("When it loads with credentials", func() {
			So(store.Save(ctx, "alice", "pw"), ShouldBeNil)
			So(d.Load(ctx), ShouldBeNil)

			Convey("Then the greeting and both lists render", func() {
				So(rec.HTML(ui.SlotUser), ShouldEqual, "Welcome, alice")
				So(rec.HTML(ui.SlotProjects), ShouldContainSubstring, view.NoProjects)
				So(rec.HTML(ui.SlotSkills), ShouldContainSubstring, "level-unknown")
				So(d.Skills.Snapshot(), ShouldHaveLength, 1)
			})
		})

		Convey("When one list fails to reload", func() {
			f.fail("skills", &api.RequestError{Status: 500, Message: "db down"})
			err := d.ReloadAll(ctx)

			Convey("Then the other still renders", func() {
				So(err, ShouldNotBeNil)
				So(rec.Mounts(ui.SlotProjects), ShouldEqual, 1)
				So(rec.Messages(), ShouldResemble, []string{"Failed to load skills: db down"})
			})
		})

		Convey("When logging in with accepted credentials", func() {
			So(d.Login(ctx, "alice", "pw"), ShouldBeNil)
			name, err := store.Username(ctx)
			So(err, ShouldBeNil)
			So(name, ShouldEqual, "alice")
		})

		Convey("When logging in with rejected credentials", func() {
			f.fail("check", api.ErrSessionExpired)
			err := d.Login(ctx, "alice", "wrong")

			Convey("Then nothing is kept", func() {
				So(errors.Is(err, api.ErrSessionExpired), ShouldBeTrue)
				_, err := store.Credentials(ctx)
				So(errors.Is(err, session.ErrNoCredentials), ShouldBeTrue)
			})
		})

		Convey("When logging in with an empty username", func() {
			So(errors.Is(d.Login(ctx, "", "pw"), ErrValidation), ShouldBeTrue)
			So(f.count("check"), ShouldEqual, 0)
		})

		Convey("When logging out", func() {
			So(store.Save(ctx, "alice", "pw"), ShouldBeNil)
			So(d.Logout(ctx), ShouldBeNil)

			Convey("Then credentials are gone and the entry view is shown", func() {
				_, err := store.Credentials(ctx)
				So(errors.Is(err, session.ErrNoCredentials), ShouldBeTrue)
				_, entry := rec.Navigations()
				So(entry, ShouldEqual, 1)
			})
		})
	})
}
