package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"no error": {
			wantCode: SuccessABCICode,
		},
		"typed nil root": {
			err:      (*Error)(nil),
			wantCode: SuccessABCICode,
		},
		"root error": {
			err:      ErrState,
			wantCode: ErrState.ABCICode(),
			wantLog:  "invalid state",
		},
		"wrapped twice": {
			err:      Wrapf(Wrap(ErrAmount, "share"), "unit %d", 3),
			wantCode: ErrAmount.ABCICode(),
			wantLog:  "unit 3: share: invalid amount",
		},
		"foreign error is hidden": {
			err:      fmt.Errorf("disk full"),
			wantCode: internalABCICode,
			wantLog:  internalABCILog,
		},
		"wrapped foreign error is hidden": {
			err:      Wrap(fmt.Errorf("disk full"), "commit"),
			wantCode: internalABCICode,
			wantLog:  internalABCILog,
		},
		"foreign error in debug mode": {
			err:      Wrap(fmt.Errorf("disk full"), "commit"),
			debug:    true,
			wantCode: internalABCICode,
			wantLog:  "commit: disk full",
		},
		"root error in debug mode": {
			err:      Wrap(ErrState, "locked"),
			debug:    true,
			wantCode: ErrState.ABCICode(),
			wantLog:  "locked: invalid state",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Fatalf("want code %d, got %d", tc.wantCode, code)
			}
			// the debug log starts with the stack trace
			if tc.debug && !strings.HasSuffix(log, tc.wantLog) {
				t.Fatalf("want log ending with %q, got %q", tc.wantLog, log)
			}
			if !tc.debug && log != tc.wantLog {
				t.Fatalf("want log %q, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestABCIError(t *testing.T) {
	cases := map[string]struct {
		code     uint32
		wantNil  bool
		wantRoot *Error
	}{
		"success": {
			code:    SuccessABCICode,
			wantNil: true,
		},
		"registered code": {
			code:     ErrNotFound.ABCICode(),
			wantRoot: ErrNotFound,
		},
		"code only the node knows": {
			code: 987654,
		},
		"internal code": {
			code: internalABCICode,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := ABCIError(tc.code, "remote log")
			if tc.wantNil {
				if err != nil {
					t.Fatalf("want nil, got %+v", err)
				}
				return
			}
			if tc.wantRoot != nil && !tc.wantRoot.Is(err) {
				t.Fatalf("want %q root, got %+v", tc.wantRoot, err)
			}
			if code, _ := ABCIInfo(err, false); code != tc.code {
				t.Fatalf("want code %d kept, got %d", tc.code, code)
			}
		})
	}
}
