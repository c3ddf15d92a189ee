// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package enums

// Class enums.
var (
	ClassLabLimit = New("ClassLabLimit",
		Member{"ENFORCE", "E"},
		Member{"INSTRUCTOR", "I"},
	)
	ClassEmailLogs = New("ClassEmailLogs",
		Member{"NO", "N"},
		Member{"INSTRUCTOR", "P"},
	)
	ClassExtensionSlots = New("ClassExtensionSlots",
		Member{"COMMUNITY", -1},
	)
	ContentAccessibility = New("ContentAccessibility",
		Member{"GLOBAL", "G"},
		Member{"PRIVATE", "P"},
	)
)

// User enums.
var (
	AccountPrivileges = New("AccountPrivileges",
		Member{"COMWIDE", "COMWIDE"},
		Member{"SYSWIDE", "SYSWIDE"},
		Member{"POD_DESIGNER", "POD_DESIGNER"},
		Member{"LAB_DESIGNER", "LAB_DESIGNER"},
	)
	AccountType = New("AccountType",
		Member{"STUDENT", "S"},
		Member{"INSTRUCTOR", "I"},
		Member{"ADMIN", "Z"},
	)
	CommunityExtensionSlots = New("CommunityExtensionSlots",
		Member{"UNLIMITED", -1},
	)
)

// Pod enums.
var (
	PodCategory = New("PodCategory",
		Member{"REAL_EQUIPMENT", "RE"},
		Member{"PERSISTENT_VM", "PV"},
		Member{"EPHEMERAL_VM", "EV"},
		Member{"MASTER_VM", "MV"},
		Member{"NORMAL_VM", "NV"},
	)
	PCIcon = New("PCIcon",
		Member{"PC", "P"},
		Member{"SERVER", "S"},
	)
	PCType = New("PCType",
		Member{"ABSENT", "ABSENT"},
		Member{"AVMI", "AVMI"},
	)
	PLIcon = New("PLIcon",
		Member{"PC", "P"},
		Member{"SERVER", "S"},
	)
	VirtualHostComPath = New("VirtualHostComPath",
		Member{"OUTSIDE", "OUTSIDE"},
		Member{"INSIDE", "INSIDE"},
	)
	VirtualMachineRole = New("VirtualMachineRole",
		Member{"NORMAL", "NORMAL"},
		Member{"MASTER", "MASTER"},
		Member{"PERSISTENT", "PERSISTENT"},
		Member{"TEMPLATE", "TEMPLATE"},
	)
	PodAdminState   = New("PodAdminState", podStates()...)
	PodCurrentState = New("PodCurrentState", podStates()...)
)

// Reservation and system enums.
var (
	ReservationType = New("ReservationType",
		Member{"INDIVIDUAL", "S"},
		Member{"ILT_CLASS", "C"},
		Member{"TEAM", "T"},
		Member{"INSTRUCTOR", "I"},
	)
	TimeFormat = New("TimeFormat",
		Member{"HOUR24", "24"},
		Member{"HOUR12", "12"},
	)
	DateFormat = New("DateFormat",
		Member{"ISO", "ISO"},
		Member{"DMY_SLASH", "DMY_SLASH"},
		Member{"DMY_HYPHEN", "DMY_HYPHEN"},
		Member{"DMY_DOT", "DMY_DOT"},
		Member{"DMY_SPACE", "DMY_SPACE"},
		Member{"DD_MMM_YYYY", "DD_MMM_YYYY"},
		Member{"MDY_SLASH", "MDY_SLASH"},
		Member{"DAY_MDY", "DAY_MDY"},
		Member{"CHINESE", "CHINESE"},
		Member{"JAPANESE", "JAPANESE"},
	)
)

func podStates() []Member {
	names := []string{
		"OFFLINE", "ONLINE",
		"ACTIVE_INIT", "ACTIVE_LOAD", "ACTIVE_LAB", "ACTIVE_POST", "ACTIVE_SAVE", "ACTIVE_TERM",
		"CLONING", "SUSPENDED", "RESUME",
	}
	members := make([]Member, len(names))
	for i, n := range names {
		members[i] = Member{n, n}
	}
	return members
}
