// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package coerce

import (
	"github.com/juju/netlab/core/enums"
)

var defaultTable = MustNewTable(
	EnumField("cls_email_logs", enums.ClassEmailLogs),
	EnumField("cls_lab_limit", enums.ClassLabLimit),
	EnumField("acc_type", enums.AccountType),
	EnumField("pod_cat", enums.PodCategory),
	EnumField("pod_admin_state", enums.PodAdminState),
	EnumField("pod_current_state", enums.PodCurrentState),
	EnumField("pc_icon", enums.PCIcon),
	EnumField("pc_type", enums.PCType),
	EnumField("pl_icon", enums.PLIcon),
	EnumField("vh_com_path", enums.VirtualHostComPath),
	EnumField("vm_role", enums.VirtualMachineRole),
	EnumField("res_type", enums.ReservationType),
	EnumField("date_format", enums.DateFormat),
	EnumField("time_format", enums.TimeFormat),
	EnumField("cls_ext_slots_per_res", enums.ClassExtensionSlots, IntCandidate),
	EnumField("com_ext_slots_per_res", enums.CommunityExtensionSlots, IntCandidate),
	EnumField("con_access", enums.ContentAccessibility),

	EnumCSVField("acc_privs", enums.AccountPrivileges),
	EnumCSVField("pod_cat_values", enums.PodCategory),

	Fields(KindStrCSV, "con_pt_ids"),

	Fields(KindBlankIsNone, "ros_team"),

	Fields(KindDate,
		// Class
		"cls_end_date", "cls_start_date",
		// System
		"sys_lic_exp_date", "sys_maint_ends", "sys_sdn_release_date",
		// Reservation
		"local_ymd",
		// History
		"crs_release_date",
	),

	Fields(KindDateTime,
		// HDR
		"time", "hdr_time",
		// User
		"acc_last_login", "acc_session_time_started", "acc_time_created", "acc_time_last_access",
		// Pod
		"vh_bios_date", "vh_date_modified", "vh_date_tested", "vm_date_added", "vh_date_added",
		// Reservation
		"res_active_time", "res_attend_time", "res_end", "res_post_time", "res_preload_time",
		"res_start", "utc", "local", "time_in_local", "time_in_utc", "time_out_local", "time_out_utc",
		"res_end_utc", "res_start_utc", "start_time", "end_time",
		// History
		"lh_active_time", "lh_attend_time", "lh_end_time", "lh_start_time",
		"res_end_actual", "res_end_sched", "res_load_time", "res_save_time", "res_term_time", "rh_report_time",
		// VM
		"vdc_date_added", "vdc_date_tested", "vhp_time",
		// System
		"sp_time",
	),

	Fields(KindTimeDelta, "res_remaining_dhms"),

	Fields(KindBool,
		// Class
		"cls_change_ex", "cls_no_delete", "cls_retain_ilt", "cls_retain_st", "cls_self_sched", "cls_team_sched",
		"lead", "con_managed", "con_global", "registered", "auth_all_communities",
		// System
		"sys_logins_enabled",
		// User
		"acc_can_login", "acc_pw_change", "acc_sys", "test_taken", "com_enabled", "enabled", "logout", "changed",
		"acc_nlx_terms", "acc_npd_terms",
		// Pod
		"pod_acl_enabled", "pod_auto_net_enabled", "pod_auto_net_host_setup", "pod_auto_net_host_teardown",
		"pod_managed", "pt_removable", "pc_online", "pc_revert_to_scrub", "pc_vnc_use_copy_rect",
		"vh_online", "vh_pra_enabled", "vm_auto_display", "vm_auto_network", "vm_auto_settings",
		"vm_sanity_checks", "pod_dyn_vlan",
		// Reservation
		"res_done", "res_is_active", "tz_is_dst",
		// History
		"rh_reported",
		// VM
		"notify_progress", "notify_complete", "data_available",
		// Paging
		"out_of_bounds",
	),

	Fields(KindDecimal,
		// System
		"gnice_pct", "guest_pct", "idle_pct", "iowait_pct", "irq_pct", "nice_pct", "soft_pct",
		"steal_pct", "sys_pct", "usr_pct", "uptime_sec", "used_pct", "sp_value",
	),

	Fields(KindInt,
		// Class
		"cls_max_slots_per_res", "cls_min_hours_btw_res", "cls_retain_period", "com_id", "cls_id", "acc_id",
		"con_trustee",
		// Lab
		"con_build", "con_fs_id", "ex_index", "ex_minutes", "ex_fs_id",
		// Pod
		"pod_id", "pod_csw_base_port", "pod_csw_base_vlan", "pod_csw_id", "pod_id_avail_count",
		"pod_id_base", "pod_id_range_min", "pod_id_range_max", "pod_osm_enabled", "non_osm_pod_count",
		"pod_vlan_pool_size", "sys_total_pod_count", "clone_vh_id", "pl_index", "dev_id", "line", "pc_id",
		"pev_id", "res_id", "severity", "device_count", "pt_apc_port_count", "pt_as_port_count", "pt_build",
		"pt_csw_port_count", "pt_pod_max", "pt_vlan_pool", "remote_pc_count", "pod_res_id", "pc_pod_id",
		"pc_pod_index", "pc_vnc_port", "vdc_id", "vh_cpu_cores", "vh_cpu_mhz", "vh_cpu_threads", "vh_id",
		"vh_memory_mb", "vh_pra_max_cpu", "vh_pra_max_mem_mb", "vh_pra_max_vm", "vhg_id", "vm_alloc_cpu_n",
		"vm_alloc_mem_mb", "vm_child_count", "vm_id", "vm_parent_id", "vm_runtime_vh_id", "pt_index",
		// Reservation
		"acc_com_id", "cls_div_id", "res_acc_id", "res_cls_id", "res_com_id", "res_flags", "res_init_fail",
		"res_minutes", "res_pod_id", "res_remaining_sec", "serial", "slot_minutes", "active_reservations",
		"completed_reservations", "future_reservations", "pods_in_use", "total_reservations", "days", "hours",
		"minutes", "months", "local_day", "local_day_of_week", "local_hour_12", "local_hour_24", "local_minute",
		"local_second", "local_year", "tz_id", "tz_id_in", "tz_id_out",
		// History
		"cli_bytes_in", "cli_bytes_out", "cli_connects", "cli_seconds", "lh_attend_min", "lh_n_users",
		"vnc_bytes_in", "vnc_bytes_out", "vnc_connects", "vnc_seconds", "res_extensions", "rh_attend_min",
		"rh_init_fail_total", "rh_n_lab_devices", "rh_n_users", "rh_n_vcpu", "rh_n_vm", "rh_n_vm_hosts",
		"rh_resume_total", "rh_suspend_total",
		// System
		"cpu_n", "free_b", "avail_b", "total_b", "used_b",
		// User
		"acc_fs_id", "acc_logins", "com_alt_banner_height", "com_alt_banner_width", "com_max_slots_per_res",
		"com_min_hours_btw_res", "active", "logouts", "acc_maint_notify", "acc_session_tx_number",
		"accman_list_com_id", "first_weekday",
		// VM
		"progress", "vh_cpu_count", "pc_vm_id", "age_sec",
		// Paging
		"page_length", "total_records", "total_pages", "page_limit", "current_page", "page_offset", "page_total",
	),

	Fields(KindUUID,
		// History
		"acc_uuid", "cls_uuid", "com_uuid", "crs_uuid", "lh_uuid", "rh_uuid", "lh_uuid_current", "pod_uuid",
		"res_uuid",
	),
)

// DefaultTable returns the coercion table for the appliance protocol.
func DefaultTable() *Table {
	return defaultTable
}
