package apiconnect

import (
	"testing"

	"github.com/Mdazar123/billsplitr/pkg/api"
)

func TestJSONCodec(t *testing.T) {
	codec := JSONCodec{}

	if codec.Name() != "json" {
		t.Errorf("Name() = %q, want %q", codec.Name(), "json")
	}

	data, err := codec.Marshal(&api.GetGroupRequest{GroupId: "g1"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"groupId":"g1"}` {
		t.Errorf("Marshal = %s, want lowerCamel field names", data)
	}

	var req api.GetGroupBalancesRequest
	if err := codec.Unmarshal([]byte(`{"groupId":"g1","shareMode":"split"}`), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if req.GroupId != "g1" || req.ShareMode != api.ShareModeBySplit {
		t.Errorf("Unexpected request: %+v", req)
	}

	var empty api.ListGroupsRequest
	if err := codec.Unmarshal(nil, &empty); err != nil {
		t.Errorf("Unmarshal of empty body failed: %v", err)
	}

	if err := codec.Unmarshal([]byte(`{"groupId":`), &req); err == nil {
		t.Error("Expected error for truncated JSON")
	}
}
