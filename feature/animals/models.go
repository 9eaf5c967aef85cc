package animals

import "time"

// Sex is the registry sex code.
type Sex string

const (
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
	SexUnknown Sex = "Q"
)

// ParseSex decodes a registry code, falling back to SexUnknown.
func ParseSex(code *string) Sex {
	if code != nil {
		switch s := Sex(*code); s {
		case SexMale, SexFemale, SexUnknown:
			return s
		}
	}
	return SexUnknown
}

// Neuter is the registry neutering flag.
type Neuter string

const (
	NeuterYes     Neuter = "Y"
	NeuterNo      Neuter = "N"
	NeuterUnknown Neuter = "U"
)

// ParseNeuter decodes a registry code, falling back to NeuterUnknown.
func ParseNeuter(code *string) Neuter {
	if code != nil {
		switch n := Neuter(*code); n {
		case NeuterYes, NeuterNo, NeuterUnknown:
			return n
		}
	}
	return NeuterUnknown
}

// Animal is one registry record, mirrored in abandoned_animals.
// Nil pointer fields mean the registry did not send the value.
type Animal struct {
	DesertionNo  string    `gorm:"column:desertion_no;primaryKey;type:varchar(50)" json:"desertion_no"`
	RfidCd       *string   `gorm:"column:rfid_cd;type:varchar(50)" json:"rfid_cd"`
	HappenDt     *string   `gorm:"column:happen_dt;type:varchar(20)" json:"happen_dt"`
	HappenPlace  *string   `gorm:"column:happen_place;type:varchar(255)" json:"happen_place"`
	UpKindNm     *string   `gorm:"column:up_kind_nm;type:varchar(50)" json:"up_kind_nm"`
	KindNm       *string   `gorm:"column:kind_nm;type:varchar(100)" json:"kind_nm"`
	ColorCd      *string   `gorm:"column:color_cd;type:varchar(100)" json:"color_cd"`
	Age          *string   `gorm:"column:age;type:varchar(50)" json:"age"`
	Weight       *string   `gorm:"column:weight;type:varchar(50)" json:"weight"`
	NoticeSdt    *string   `gorm:"column:notice_sdt;type:varchar(20)" json:"notice_sdt"`
	NoticeEdt    *string   `gorm:"column:notice_edt;type:varchar(20)" json:"notice_edt"`
	Popfile1     *string   `gorm:"column:popfile1;type:varchar(500)" json:"popfile1"`
	Popfile2     *string   `gorm:"column:popfile2;type:varchar(500)" json:"popfile2"`
	ProcessState *string   `gorm:"column:process_state;type:varchar(50);index" json:"process_state"`
	SexCd        Sex       `gorm:"column:sex_cd;type:varchar(1);not null;default:Q" json:"sex_cd"`
	NeuterYn     Neuter    `gorm:"column:neuter_yn;type:varchar(1);not null;default:U" json:"neuter_yn"`
	SpecialMark  *string   `gorm:"column:special_mark;type:text" json:"special_mark"`
	CareNm       *string   `gorm:"column:care_nm;type:varchar(100)" json:"care_nm"`
	CareTel      *string   `gorm:"column:care_tel;type:varchar(50)" json:"care_tel"`
	CareAddr     *string   `gorm:"column:care_addr;type:varchar(255)" json:"care_addr"`
	CareOwnerNm  *string   `gorm:"column:care_owner_nm;type:varchar(100)" json:"care_owner_nm"`
	OrgNm        *string   `gorm:"column:org_nm;type:varchar(100)" json:"org_nm"`
	EtcBigo      *string   `gorm:"column:etc_bigo;type:text" json:"etc_bigo"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name used by Animal to `abandoned_animals`
func (Animal) TableName() string {
	return "abandoned_animals"
}
