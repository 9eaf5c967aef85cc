package animals

import (
	"errors"
	"strings"

	"shelter-sync/core/reconcile"
	"shelter-sync/core/utils"
)

// ErrMissingDesertionNo is returned for records without an identifier.
var ErrMissingDesertionNo = errors.New("missing desertionNo")

// MapRecord converts one registry item into an Animal.
// Enumerations never fail: unknown or missing codes fall back to Q and U.
func MapRecord(raw map[string]any) (*Animal, error) {
	id := strings.TrimSpace(utils.ToString(raw["desertionNo"]))
	if id == "" {
		return nil, reconcile.MappingError("", ErrMissingDesertionNo)
	}

	str := func(key string) *string {
		return utils.ToOptionalString(raw[key])
	}

	popfile1 := str("popfile1")
	if popfile1 == nil {
		popfile1 = str("popfile")
	}

	return &Animal{
		DesertionNo:  id,
		RfidCd:       str("rfidCd"),
		HappenDt:     str("happenDt"),
		HappenPlace:  str("happenPlace"),
		UpKindNm:     str("upKindNm"),
		KindNm:       str("kindNm"),
		ColorCd:      str("colorCd"),
		Age:          str("age"),
		Weight:       str("weight"),
		NoticeSdt:    str("noticeSdt"),
		NoticeEdt:    str("noticeEdt"),
		Popfile1:     popfile1,
		Popfile2:     str("popfile2"),
		ProcessState: str("processState"),
		SexCd:        ParseSex(str("sexCd")),
		NeuterYn:     ParseNeuter(str("neuterYn")),
		SpecialMark:  str("specialMark"),
		CareNm:       str("careNm"),
		CareTel:      str("careTel"),
		CareAddr:     str("careAddr"),
		CareOwnerNm:  str("careOwnerNm"),
		OrgNm:        str("orgNm"),
		EtcBigo:      str("etcBigo"),
	}, nil
}
