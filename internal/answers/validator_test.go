package answers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anagmk/Reel/internal/models"
	"github.com/anagmk/Reel/internal/session"
)

type fakeQuestions struct {
	byID map[uuid.UUID]*models.Question
	err  error
}

func (f *fakeQuestions) GetQuestion(_ context.Context, id uuid.UUID) (*models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	if q, ok := f.byID[id]; ok {
		return q, nil
	}
	return nil, models.ErrNotFound
}

// fakeResponses enforces the (user, video, question) uniqueness like the table does.
type fakeResponses struct {
	mu   sync.Mutex
	rows map[string]models.Response
	err  error
}

func newFakeResponses() *fakeResponses {
	return &fakeResponses{rows: map[string]models.Response{}}
}

func (f *fakeResponses) Record(_ context.Context, r *models.Response) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%s/%s/%s", r.UserID, r.VideoID, r.QuestionID)
	if _, ok := f.rows[key]; ok {
		return false, nil
	}
	f.rows[key] = *r
	return true, nil
}

func intp(i int) *int { return &i }

func setup(correct int) (*Validator, *models.Question, *fakeQuestions, *fakeResponses) {
	q := &models.Question{
		ID:      uuid.New(),
		VideoID: uuid.New(),
		Options: models.BuildOptions([]string{"a", "b", "c", "d"}, correct),
	}
	qs := &fakeQuestions{byID: map[uuid.UUID]*models.Question{q.ID: q}}
	rs := newFakeResponses()
	return NewValidator(qs, rs, zap.NewNop()), q, qs, rs
}

func TestSubmitGradesAndRecordsOnce(t *testing.T) {
	v, q, _, rs := setup(2)
	user := uuid.New()

	res, err := v.Submit(context.Background(), Submission{QuestionID: q.ID.String(), SelectedOption: intp(2), UserID: &user})
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 2, res.CorrectAnswer)
	assert.Equal(t, OutcomeRecorded, res.Outcome)

	res, err = v.Submit(context.Background(), Submission{QuestionID: q.ID.String(), SelectedOption: intp(1), UserID: &user})
	require.NoError(t, err)
	assert.False(t, res.IsCorrect)
	assert.Equal(t, 2, res.CorrectAnswer)
	assert.Equal(t, OutcomeAlreadyAnswered, res.Outcome)

	require.Len(t, rs.rows, 1)
	for _, row := range rs.rows {
		assert.Equal(t, 2, row.SelectedOption)
		assert.True(t, row.IsCorrect)
		assert.Equal(t, q.VideoID, row.VideoID, "videoId defaults to the question's video")
	}
}

func TestSubmitConcurrentDuplicatesLeaveOneRow(t *testing.T) {
	v, q, _, rs := setup(0)
	user := uuid.New()

	var wg sync.WaitGroup
	outcomes := make([]Outcome, 16)
	for i := range outcomes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := v.Submit(context.Background(), Submission{QuestionID: q.ID.String(), SelectedOption: intp(0), UserID: &user})
			if assert.NoError(t, err) {
				assert.True(t, res.IsCorrect)
				outcomes[i] = res.Outcome
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, rs.rows, 1)
	recorded := 0
	for _, o := range outcomes {
		if o == OutcomeRecorded {
			recorded++
		}
	}
	assert.Equal(t, 1, recorded)
}

func TestSubmitRejectsForeignVideoID(t *testing.T) {
	v, q, _, rs := setup(0)
	user := uuid.New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := v.Submit(ctx, Submission{QuestionID: q.ID.String(), VideoID: uuid.NewString(), SelectedOption: intp(0), UserID: &user})
		assert.ErrorIs(t, err, ErrInvalid)
	}
	assert.Empty(t, rs.rows)

	res, err := v.Submit(ctx, Submission{QuestionID: q.ID.String(), VideoID: q.VideoID.String(), SelectedOption: intp(0), UserID: &user})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRecorded, res.Outcome)
	res, err = v.Submit(ctx, Submission{QuestionID: q.ID.String(), SelectedOption: intp(1), UserID: &user})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyAnswered, res.Outcome)
	assert.Len(t, rs.rows, 1)
}

func TestSubmitAnonymousIsNotRecorded(t *testing.T) {
	v, q, _, rs := setup(3)
	res, err := v.Submit(context.Background(), Submission{QuestionID: q.ID.String(), SelectedOption: intp(3)})
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, OutcomeNotRecorded, res.Outcome)
	assert.Empty(t, rs.rows)
}

func TestSubmitNoCorrectOption(t *testing.T) {
	v, q, _, _ := setup(-1)
	res, err := v.Submit(context.Background(), Submission{QuestionID: q.ID.String(), SelectedOption: intp(0)})
	require.NoError(t, err)
	assert.False(t, res.IsCorrect)
	assert.Equal(t, -1, res.CorrectAnswer)
}

func TestSubmitErrors(t *testing.T) {
	v, q, qs, rs := setup(1)
	user := uuid.New()
	ctx := context.Background()

	_, err := v.Submit(ctx, Submission{SelectedOption: intp(1)})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = v.Submit(ctx, Submission{QuestionID: q.ID.String()})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = v.Submit(ctx, Submission{QuestionID: q.ID.String(), SelectedOption: intp(4)})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = v.Submit(ctx, Submission{QuestionID: q.ID.String(), SelectedOption: intp(-1)})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = v.Submit(ctx, Submission{QuestionID: "not-a-uuid", SelectedOption: intp(1)})
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = v.Submit(ctx, Submission{QuestionID: uuid.NewString(), SelectedOption: intp(1)})
	assert.ErrorIs(t, err, models.ErrNotFound)

	rs.err = errors.New("connection reset")
	_, err = v.Submit(ctx, Submission{QuestionID: q.ID.String(), SelectedOption: intp(1), UserID: &user})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)

	qs.err = errors.New("timeout")
	_, err = v.Submit(ctx, Submission{QuestionID: q.ID.String(), SelectedOption: intp(1)})
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}

func TestSubmitHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v, q, _, rs := setup(2)
	user := uuid.New()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(session.ContextKey, &session.Session{ID: "s", User: &session.Principal{AccountID: user, Role: models.RoleUser}})
		c.Next()
	})
	r.POST("/user/submit-answer", NewHandler(v, zap.NewNop()).Submit)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/user/submit-answer", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"questionId":"` + q.ID.String() + `","selectedOption":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isCorrect":true,"correctAnswer":2}`, w.Body.String())
	assert.Len(t, rs.rows, 1)

	w = post(`{"questionId":"` + q.ID.String() + `","selectedOption":"2"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(`{"questionId":"` + q.ID.String() + `"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(`{"questionId":"` + uuid.NewString() + `","selectedOption":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	rs.err = errors.New("disk full")
	w = post(`{"questionId":"` + q.ID.String() + `","selectedOption":0,"videoId":"` + uuid.NewString() + `"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(`{"questionId":"` + q.ID.String() + `","selectedOption":0,"videoId":"` + q.VideoID.String() + `"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk full")
}
