package utils

import (
	"context"
	"testing"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/splittest"
	"github.com/iov-one/splitnet/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

func stringTag(key, value string) common.KVPair {
	return common.KVPair{
		Key:   []byte(key),
		Value: []byte(value),
	}
}

type unitMsg struct {
	splittest.Msg
	unit splitnet.Address
}

func (m *unitMsg) Target() splitnet.Address {
	return m.unit
}

func TestActionTagger(t *testing.T) {
	unit := splittest.NewCondition().Address()

	cases := map[string]struct {
		Handler *splittest.Handler
		Tx      splitnet.Tx
		WantErr *errors.Error
		Tags    []common.KVPair
	}{
		"simple call": {
			Handler: &splittest.Handler{},
			Tx:      &splittest.Tx{Msg: &splittest.Msg{RoutePath: "splitter/distribute"}},
			Tags:    []common.KVPair{stringTag(ActionKey, "splitter/distribute")},
		},
		"unit message is tagged with its target": {
			Handler: &splittest.Handler{},
			Tx:      &splittest.Tx{Msg: &unitMsg{Msg: splittest.Msg{RoutePath: "splitter/lock"}, unit: unit}},
			Tags: []common.KVPair{
				stringTag(ActionKey, "splitter/lock"),
				stringTag(TargetKey, unit.String()),
			},
		},
		"passes through error": {
			Handler: &splittest.Handler{DeliverErr: errors.ErrHuman},
			Tx:      &splittest.Tx{Msg: &splittest.Msg{RoutePath: "splitter/distribute"}},
			WantErr: errors.ErrHuman,
		},
		"tags are additive": {
			Handler: &splittest.Handler{
				DeliverResult: splitnet.DeliverResult{Tags: []common.KVPair{stringTag("unit", "random")}},
			},
			Tx:   &splittest.Tx{Msg: &splittest.Msg{RoutePath: "splitter/lock"}},
			Tags: []common.KVPair{stringTag("unit", "random"), stringTag(ActionKey, "splitter/lock")},
		},
		"broken transaction is not dispatched": {
			Handler: &splittest.Handler{},
			Tx:      &splittest.Tx{Err: errors.ErrMsg},
			WantErr: errors.ErrMsg,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := NewActionTagger().Deliver(context.Background(), store.MemStore(), tc.Tx, tc.Handler)
			if !tc.WantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.WantErr, err)
			}
			if tc.WantErr != nil {
				return
			}
			require.Equal(t, len(tc.Tags), len(res.Tags))
			for i := range tc.Tags {
				assert.Equal(t, string(tc.Tags[i].Key), string(res.Tags[i].Key))
				assert.Equal(t, string(tc.Tags[i].Value), string(res.Tags[i].Value))
			}
		})
	}
}
