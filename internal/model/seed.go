package model

// seedEntry 是组织种子数据的紧凑表示。
type seedEntry struct {
	id   string
	name string
	role Role
}

// 组织种子数据：中央 1、ブロック 9、分会 52、支部 3。
// displayOrder 与切片下标一致。
var seedEntries = []seedEntry{
	{"org_000", "中央", RoleCentral},

	{"org_001", "北海道ブロック", RoleBlock},
	{"org_002", "東北ブロック", RoleBlock},
	{"org_003", "関東ブロック", RoleBlock},
	{"org_004", "北陸ブロック", RoleBlock},
	{"org_005", "東海ブロック", RoleBlock},
	{"org_006", "近畿ブロック", RoleBlock},
	{"org_007", "中国ブロック", RoleBlock},
	{"org_008", "四国ブロック", RoleBlock},
	{"org_009", "九州ブロック", RoleBlock},

	{"org_010", "北海道", RoleSub},
	{"org_011", "青森", RoleSub},
	{"org_012", "岩手", RoleSub},
	{"org_013", "宮城", RoleSub},
	{"org_014", "秋田", RoleSub},
	{"org_015", "山形", RoleSub},
	{"org_016", "福島", RoleSub},
	{"org_017", "茨城", RoleSub},
	{"org_018", "栃木", RoleSub},
	{"org_019", "群馬", RoleSub},
	{"org_020", "埼玉", RoleSub},
	{"org_021", "千葉", RoleSub},
	{"org_022", "東京", RoleSub},
	{"org_023", "神奈川", RoleSub},
	{"org_024", "新潟", RoleSub},
	{"org_025", "富山", RoleSub},
	{"org_026", "石川", RoleSub},
	{"org_027", "福井", RoleSub},
	{"org_028", "山梨", RoleSub},
	{"org_029", "長野", RoleSub},
	{"org_030", "岐阜", RoleSub},
	{"org_031", "静岡", RoleSub},
	{"org_032", "愛知", RoleSub},
	{"org_033", "三重", RoleSub},
	{"org_034", "滋賀", RoleSub},
	{"org_035", "京都", RoleSub},
	{"org_036", "大阪", RoleSub},
	{"org_037", "兵庫", RoleSub},
	{"org_038", "奈良", RoleSub},
	{"org_039", "和歌山", RoleSub},
	{"org_040", "鳥取", RoleSub},
	{"org_041", "島根", RoleSub},
	{"org_042", "岡山", RoleSub},
	{"org_043", "広島", RoleSub},
	{"org_044", "山口", RoleSub},
	{"org_045", "徳島", RoleSub},
	{"org_046", "香川", RoleSub},
	{"org_047", "愛媛", RoleSub},
	{"org_048", "高知", RoleSub},
	{"org_049", "福岡", RoleSub},
	{"org_050", "佐賀", RoleSub},
	{"org_051", "長崎", RoleSub},
	{"org_052", "熊本", RoleSub},
	{"org_053", "大分", RoleSub},
	{"org_054", "宮崎", RoleSub},
	{"org_055", "鹿児島", RoleSub},
	{"org_056", "沖縄", RoleSub},
	{"org_057", "旭川", RoleSub},
	{"org_058", "多摩", RoleSub},
	{"org_059", "豊橋", RoleSub},
	{"org_060", "南大阪", RoleSub},
	{"org_061", "北九州", RoleSub},

	{"org_062", "幕張", RoleBranch},
	{"org_063", "所沢", RoleBranch},
	{"org_064", "吉備", RoleBranch},
}

// SeedOrganizations 返回一份新的组织种子数据切片。
// 每次调用返回独立副本，调用方可以安全修改。
func SeedOrganizations() []Organization {
	orgs := make([]Organization, 0, len(seedEntries))
	for i, e := range seedEntries {
		orgs = append(orgs, Organization{
			ID:           e.id,
			Name:         e.name,
			Role:         e.role,
			Active:       true,
			DisplayOrder: i,
		})
	}
	return orgs
}
