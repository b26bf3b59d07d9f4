package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/adapter/repository/postgres"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/domain/authlog"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/pkg/testhelper"
)

func TestRepository_Integration(t *testing.T) {
	db := testhelper.OpenGorm(t, &postgres.EventModel{}, &postgres.MailSettingsModel{})
	repo := postgres.NewRepository(db)
	ctx := context.Background()

	key := authlog.AttemptKey{AppID: "app_1", AttemptID: "req_1"}
	base := time.Now().Unix()
	seed := []authlog.Event{
		{EventID: "101", Status: authlog.StatusLoginInitiated, Timestamp: base, UserAgent: "Safari"},
		{EventID: "102", Status: authlog.StatusEmailSent, Timestamp: base + 1, Provider: "sendgrid"},
		{EventID: "103", Status: authlog.StatusEmailDelivered, Timestamp: base + 2},
		{EventID: "104", Status: authlog.StatusEmailOpened, Timestamp: base + 3},
		{EventID: "105", Status: authlog.StatusEmailOpened, Timestamp: base + 3},
		{EventID: "106", Status: authlog.StatusLoginSuccess, Timestamp: base + 4, AuthUserID: "usr_1"},
	}
	for _, ev := range seed {
		require.NoError(t, repo.Record(ctx, key, ev))
	}
	require.NoError(t, repo.Record(ctx, authlog.AttemptKey{AppID: "app_2", AttemptID: "req_9"},
		authlog.Event{EventID: "201", Status: authlog.StatusError, Timestamp: base}))

	t.Run("RecordRejectsNonNumericID", func(t *testing.T) {
		err := repo.Record(ctx, key, authlog.Event{EventID: "abc", Status: authlog.StatusEmailSent})
		assert.Error(t, err)
	})

	t.Run("ListByAttempt", func(t *testing.T) {
		events, err := repo.ListByAttempt(ctx, key)
		require.NoError(t, err)
		require.Len(t, events, 6)
		assert.Equal(t, "101", events[0].EventID)
		assert.Equal(t, "Safari", events[0].UserAgent)
		assert.Equal(t, "106", events[5].EventID)
	})

	t.Run("ListRecentByAttempt", func(t *testing.T) {
		events, err := repo.ListRecentByAttempt(ctx, key, authlog.TimelineCapacity)
		require.NoError(t, err)
		require.Len(t, events, 5)
		assert.Equal(t, "106", events[0].EventID)
		assert.Equal(t, "105", events[1].EventID)
		assert.Equal(t, "102", events[4].EventID)
	})

	t.Run("CountByStatus", func(t *testing.T) {
		counts, err := repo.CountByStatus(ctx, "app_1", time.Unix(base, 0))
		require.NoError(t, err)

		byStatus := map[authlog.Status]int64{}
		for _, c := range counts {
			byStatus[c.Status] = c.Count
		}
		assert.Equal(t, int64(2), byStatus[authlog.StatusEmailOpened])
		assert.Equal(t, int64(1), byStatus[authlog.StatusLoginSuccess])
		assert.NotContains(t, byStatus, authlog.StatusError)

		counts, err = repo.CountByStatus(ctx, "app_1", time.Unix(base+10, 0))
		require.NoError(t, err)
		assert.Empty(t, counts)
	})

	t.Run("ListActiveApps", func(t *testing.T) {
		apps, err := repo.ListActiveApps(ctx, time.Unix(base, 0), 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"app_1", "app_2"}, apps)
	})

	t.Run("HasCustomSMTP", func(t *testing.T) {
		enabled, err := repo.HasCustomSMTP(ctx, "app_1")
		require.NoError(t, err)
		assert.False(t, enabled)

		require.NoError(t, db.Create(&postgres.MailSettingsModel{AppID: "app_1", CustomSMTPEnabled: true, SenderEmail: "login@acme.test"}).Error)
		enabled, err = repo.HasCustomSMTP(ctx, "app_1")
		require.NoError(t, err)
		assert.True(t, enabled)
	})
}
