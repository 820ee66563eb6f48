package catalog

var defaultKPIs = map[Technology][]string{
	GSM: {
		"erlang",
		"tch_availability",
		"hosr_all",
		"dcr",
		"2G_CSSR_IR(%)_MAPS",
	},
	UMTS: {
		"rab_drop_rate_cs",
		"payload_total_3g_gbyte",
		"hosr_soft",
		"hsdpa_frame_loss_rate_iub",
		"rtwp_avg_of_dbm_values",
		"throughput_hs_dc_nodeb_kbps",
		"cell_availability_system",
		"cssr_cs",
		"erlang_3g",
		"rab_drop_rate_hs",
	},
	LMBB: {
		"erlang_volte",
		"payload_pdcp_total_gbyte",
		"cssr_ps",
		"erab_drop_rate_maps",
		"erab_setup_succ_rate_qci1",
		"erab_drop_rate_volte_qci1",
		"hosr_intra_freq_out",
		"throughput_ue_all_qci_dl_kbps_maps",
		"interference_pusch_avg_maps",
		"4G_Interference_PUCCH_Avg_MAPS",
		"cell_availability_system",
	},
}

var defaultMetadata = map[string]Metadata{
	// GSM
	"erlang":             {DisplayName: "Erlang Traffic", Synonyms: []string{"erl", "traffic load"}},
	"tch_availability":   {DisplayName: "TCH Availability", Synonyms: []string{"tch avail", "channel availability"}},
	"hosr_all":           {DisplayName: "Handover Success Rate (All)", Synonyms: []string{"hosr", "handover success"}},
	"dcr":                {DisplayName: "Drop Call Rate", Synonyms: []string{"drop rate", "dropped calls"}},
	"2G_CSSR_IR(%)_MAPS": {DisplayName: "2G CSSR IR (%) (MAPS)", Synonyms: []string{"cssr ir", "2g cssr"}},

	// UMTS
	"rab_drop_rate_cs":            {DisplayName: "RAB Drop Rate (CS)", Synonyms: []string{"cs drop", "rab cs"}},
	"payload_total_3g_gbyte":      {DisplayName: "Total 3G Payload (GB)", Synonyms: []string{"3g payload", "data volume"}},
	"hosr_soft":                   {DisplayName: "Handover Success Rate (Soft)", Synonyms: []string{"soft hosr"}},
	"hsdpa_frame_loss_rate_iub":   {DisplayName: "HSDPA Frame Loss Rate (IuB)", Synonyms: []string{"frame loss"}},
	"rtwp_avg_of_dbm_values":      {DisplayName: "RTWP Avg (dBm)", Synonyms: []string{"rtwp", "received power"}},
	"throughput_hs_dc_nodeb_kbps": {DisplayName: "HS-DC Throughput (kbps)", Synonyms: []string{"hsdc throughput"}},
	"cell_availability_system":    {DisplayName: "Cell Availability (System)", Synonyms: []string{"cell avail", "availability"}},
	"cssr_cs":                     {DisplayName: "CS Call Setup Success Rate", Synonyms: []string{"cssr cs"}},
	"erlang_3g":                   {DisplayName: "3G Erlang Traffic", Synonyms: []string{"3g erlang"}},
	"rab_drop_rate_hs":            {DisplayName: "RAB Drop Rate (HS)", Synonyms: []string{"hs drop", "rab hs"}},

	// LMBB
	"erlang_volte":                       {DisplayName: "VoLTE Erlang Traffic", Synonyms: []string{"volte erlang"}},
	"payload_pdcp_total_gbyte":           {DisplayName: "PDCP Payload Total (GB)", Synonyms: []string{"pdcp payload"}},
	"cssr_ps":                            {DisplayName: "PS Call Setup Success Rate", Synonyms: []string{"cssr ps"}},
	"erab_drop_rate_maps":                {DisplayName: "ERAB Drop Rate (MAPS)", Synonyms: []string{"erab drop"}},
	"erab_setup_succ_rate_qci1":          {DisplayName: "ERAB Setup Success Rate (QCI1)", Synonyms: []string{"erab setup"}},
	"erab_drop_rate_volte_qci1":          {DisplayName: "VoLTE ERAB Drop Rate (QCI1)", Synonyms: []string{"volte erab drop"}},
	"hosr_intra_freq_out":                {DisplayName: "Intra-Freq Handover Success Rate (Out)", Synonyms: []string{"intra freq hosr"}},
	"throughput_ue_all_qci_dl_kbps_maps": {DisplayName: "UE Throughput All QCI DL (kbps)", Synonyms: []string{"ue throughput"}},
	"interference_pusch_avg_maps":        {DisplayName: "Avg PUSCH Interference (MAPS)", Synonyms: []string{"pusch interference"}},
	"4G_Interference_PUCCH_Avg_MAPS":     {DisplayName: "Avg PUCCH Interference (MAPS)", Synonyms: []string{"pucch interference"}},
}
