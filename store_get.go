package entangld

import (
	"context"
	"fmt"

	"golang.org/x/exp/maps"
)

// Get reads path. param is interpreted two ways depending on where
// resolution lands: if resolution crosses a callable
// leaf, param is that callable's RPC argument; if resolution completes
// on plain data and param is a nonnegative int, the result is a
// depth-limited projection instead.
//
// Get suspends the caller in exactly two cases: crossing a remote mount
// (awaiting the matching `value` reply) and invoking a callable leaf
// that returns a *Future.
func (self *Store) Get(ctx context.Context, path string, param any) (any, error) {
	if !validatePath(path) {
		return nil, newErr(KindInvalidArgument, "get", path, fmt.Errorf("invalid path"))
	}

	remote, _, residual, ok := self.mountResolve(path)
	if ok {
		return self.getRemote(ctx, residual, remote, param)
	}

	value, err := self.getLocal(ctx, path, param)
	if err != nil {
		return nil, err
	}
	if self.derefMode {
		return self.dereferenceValue(ctx, value, param)
	}
	return value, nil
}

func (self *Store) getRemote(ctx context.Context, residual string, remote RemoteHandle, param any) (any, error) {
	id := NewCorrelationId()
	future := NewFuture()
	self.requests[id] = future

	self.transmit(Message{
		Kind:  MessageGet,
		Path:  residual,
		Id:    id,
		Param: param,
	}, remote)

	value, err := future.Await(ctx)
	delete(self.requests, id)
	return value, err
}

func (self *Store) getLocal(ctx context.Context, path string, param any) (any, error) {
	res := resolve(self.tree, path)
	return self.continueLocal(ctx, res, param)
}

func (self *Store) continueLocal(ctx context.Context, res resolveResult, param any) (any, error) {
	if !res.found {
		return nil, nil
	}

	if res.node.kind == nodeCallable {
		result, err := res.node.callable(param)
		if err != nil {
			return nil, err
		}
		if future, isF := isFuture(result); isF {
			result, err = future.Await(ctx)
			if err != nil {
				return nil, err
			}
		}
		next := resolve(fromValue(result), res.remaining)
		return self.continueLocal(ctx, next, param)
	}

	return res.node.toValue(depthOf(param)), nil
}

// depthOf reports the depth-limit param carries, or -1 (unlimited) if
// param isn't a nonnegative integer.
func depthOf(param any) int {
	switch v := param.(type) {
	case int:
		if 0 <= v {
			return v
		}
	case int64:
		if 0 <= v {
			return int(v)
		}
	case float64:
		if 0 <= v && v == float64(int(v)) {
			return int(v)
		}
	}
	return -1
}

// dereferenceValue implements deref_mode: walk value, replacing every
// callable it finds with the value that callable produces (awaiting any
// *Future). Non-serializable non-callable leaves (anything fromValue
// doesn't recognize as map/slice/primitive) may be lost in this pass —
// an accepted limitation of the projection.
func (self *Store) dereferenceValue(ctx context.Context, value any, param any) (any, error) {
	switch v := value.(type) {
	case CallableFunc:
		result, err := v(param)
		if err != nil {
			return nil, err
		}
		if future, isF := isFuture(result); isF {
			result, err = future.Await(ctx)
			if err != nil {
				return nil, err
			}
		}
		return self.dereferenceValue(ctx, result, param)
	case map[string]any:
		out := make(map[string]any, len(v))
		for _, k := range maps.Keys(v) {
			dv, err := self.dereferenceValue(ctx, v[k], param)
			if err != nil {
				return nil, err
			}
			out[k] = dv
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, cv := range v {
			dv, err := self.dereferenceValue(ctx, cv, param)
			if err != nil {
				return nil, err
			}
			out[i] = dv
		}
		return out, nil
	default:
		return v, nil
	}
}
