package utils

import (
	"github.com/iov-one/splitnet"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	// ActionKey tags every delivered transaction with its message path.
	ActionKey = "action"
	// TargetKey tags a delivered transaction with the unit or diversifier
	// its message acts on.
	TargetKey = "target"
)

// ActionTagger tags successful deliveries so clients can subscribe to all
// distributions, or to everything happening to one unit.
type ActionTagger struct{}

var _ splitnet.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx, next splitnet.Checker) (*splitnet.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx, next splitnet.Deliverer) (*splitnet.DeliverResult, error) {
	// A broken transaction is rejected before it reaches the handler.
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, actionTags(msg)...)
	return res, nil
}

func actionTags(msg splitnet.Msg) []common.KVPair {
	tags := []common.KVPair{{Key: []byte(ActionKey), Value: []byte(msg.Path())}}
	if t, ok := msg.(splitnet.TargetMsg); ok {
		tags = append(tags, common.KVPair{Key: []byte(TargetKey), Value: []byte(t.Target().String())})
	}
	return tags
}
