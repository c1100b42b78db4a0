package gomap

import (
	"container/list"
	"net/netip"
	"net/url"
	"time"

	"github.com/signadot/go-packet/ir"
)

func registerDefaults(r *Registry) {
	Register(r, "time", reduceTime, constructTime)
	Register(r, "netip.Addr", reduceAddr, constructAddr)
	Register(r, "url", reduceURL, constructURL)
	Register(r, "list", reduceList, constructList)
}

// time.Time reduces to args (unix seconds, nanoseconds) and state
// (zone name, offset seconds). The monotonic reading is dropped.
func reduceTime(t time.Time) (Reduction, error) {
	name, offset := t.Zone()
	return Reduction{
		Args:  []any{t.Unix(), t.Nanosecond()},
		State: ir.Tuple{name, offset},
	}, nil
}

func constructTime(red Reduction) (time.Time, error) {
	if len(red.Args) != 2 {
		return time.Time{}, reductionErr("time", "want 2 args, got %d", len(red.Args))
	}
	sec, ok1 := intArg(red.Args[0])
	nsec, ok2 := intArg(red.Args[1])
	if !ok1 || !ok2 || nsec < 0 || nsec >= int(time.Second) {
		return time.Time{}, reductionErr("time", "bad args %v", red.Args)
	}
	loc := time.UTC
	if red.State != nil {
		zone, ok := seqArg(red.State)
		if !ok || len(zone) != 2 {
			return time.Time{}, reductionErr("time", "bad zone %v", red.State)
		}
		name, ok1 := zone[0].(string)
		offset, ok2 := intArg(zone[1])
		if !ok1 || !ok2 {
			return time.Time{}, reductionErr("time", "bad zone %v", red.State)
		}
		if name != "UTC" || offset != 0 {
			loc = time.FixedZone(name, offset)
		}
	}
	return time.Unix(int64(sec), int64(nsec)).In(loc), nil
}

func reduceAddr(a netip.Addr) (Reduction, error) {
	if !a.IsValid() {
		return Reduction{Args: []any{""}}, nil
	}
	return Reduction{Args: []any{a.String()}}, nil
}

func constructAddr(red Reduction) (netip.Addr, error) {
	s, err := stringArg("netip.Addr", red.Args)
	if err != nil || s == "" {
		return netip.Addr{}, err
	}
	return netip.ParseAddr(s)
}

func reduceURL(u *url.URL) (Reduction, error) {
	return Reduction{Args: []any{u.String()}}, nil
}

func constructURL(red Reduction) (*url.URL, error) {
	s, err := stringArg("url", red.Args)
	if err != nil {
		return nil, err
	}
	return url.Parse(s)
}

// *list.List reduces to an empty constructor call followed by its
// elements.
func reduceList(l *list.List) (Reduction, error) {
	items := make([]any, 0, l.Len())
	for e := l.Front(); e != nil; e = e.Next() {
		items = append(items, e.Value)
	}
	return Reduction{Args: []any{}, Items: items}, nil
}

func constructList(red Reduction) (*list.List, error) {
	if len(red.Args) != 0 {
		return nil, reductionErr("list", "want no args, got %d", len(red.Args))
	}
	l := list.New()
	for _, v := range red.Items {
		l.PushBack(v)
	}
	return l, nil
}

func intArg(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	}
	return 0, false
}

func seqArg(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case ir.Tuple:
		return x, true
	}
	return nil, false
}

func stringArg(name string, args []any) (string, error) {
	if len(args) != 1 {
		return "", reductionErr(name, "want 1 arg, got %d", len(args))
	}
	s, ok := args[0].(string)
	if !ok {
		return "", reductionErr(name, "want a string arg, got %T", args[0])
	}
	return s, nil
}
