package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeOracle struct {
	status MemberStatus
	err    error
	calls  int
	gotCh  int64
}

func (f *fakeOracle) QueryMembership(_ context.Context, channelID, _ int64) (MemberStatus, error) {
	f.calls++
	f.gotCh = channelID
	return f.status, f.err
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		name   string
		status MemberStatus
		err    error
		want   bool
	}{
		{"member", StatusMember, nil, true},
		{"admin", StatusAdmin, nil, true},
		{"creator", StatusCreator, nil, true},
		{"other", StatusOther, nil, false},
		{"oracle error fails closed", StatusMember, errors.New("bot is not an admin"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &fakeOracle{status: tt.status, err: tt.err}
			g := New(o, -100123)
			assert.Equal(t, tt.want, g.Allowed(context.Background(), 7))
			assert.Equal(t, int64(-100123), o.gotCh)
		})
	}
}

func TestAllowedQueriesEveryTime(t *testing.T) {
	o := &fakeOracle{status: StatusOther}
	g := New(o, -1)

	assert.False(t, g.Allowed(context.Background(), 7))
	o.status = StatusMember
	assert.True(t, g.Allowed(context.Background(), 7))
	assert.Equal(t, 2, o.calls)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "member", StatusMember.String())
	assert.Equal(t, "other", MemberStatus(42).String())
}
