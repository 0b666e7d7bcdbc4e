package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	to, subject, text, html string
}

type fakeSender struct {
	got []sent
	err error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.got = append(f.got, sent{to, subject, text, html})
	return "<id@mg>", nil
}

func TestDeliver(t *testing.T) {
	ctx := context.Background()

	t.Run("template job", func(t *testing.T) {
		s := &fakeSender{}
		id, err := Deliver(ctx, s, []byte(`{"to":"a@b.c","template":"order_confirmation","data":{"name":"Jane","orderNumber":"ORD-1"}}`))
		require.NoError(t, err)
		assert.Equal(t, "<id@mg>", id)
		require.Len(t, s.got, 1)
		assert.Equal(t, "a@b.c", s.got[0].to)
		assert.Equal(t, "Order confirmation ORD-1", s.got[0].subject)
		assert.Contains(t, s.got[0].text, "Hello Jane")
	})

	t.Run("plain job keeps html", func(t *testing.T) {
		s := &fakeSender{}
		_, err := Deliver(ctx, s, []byte(`{"to":"a@b.c","subject":"Hi","html":"<p>x</p>"}`))
		require.NoError(t, err)
		assert.Equal(t, "<p>x</p>", s.got[0].html)
	})

	t.Run("invalid json is permanent", func(t *testing.T) {
		_, err := Deliver(ctx, &fakeSender{}, []byte(`{`))
		assert.ErrorIs(t, err, ErrBadPayload)
	})

	t.Run("missing recipient is permanent", func(t *testing.T) {
		_, err := Deliver(ctx, &fakeSender{}, []byte(`{"subject":"Hi","text":"x"}`))
		assert.ErrorIs(t, err, ErrBadPayload)
	})

	t.Run("unknown template is permanent", func(t *testing.T) {
		_, err := Deliver(ctx, &fakeSender{}, []byte(`{"to":"a@b.c","template":"nope"}`))
		assert.ErrorIs(t, err, ErrBadPayload)
	})

	t.Run("send failure is retryable", func(t *testing.T) {
		boom := errors.New("mailgun down")
		_, err := Deliver(ctx, &fakeSender{err: boom}, []byte(`{"to":"a@b.c","subject":"Hi","text":"x"}`))
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrBadPayload)
	})
}
