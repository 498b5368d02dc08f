package rpc

// Remote procedure names
const (
	ProcExchangeIdentity = "exchange_identity"
	ProcGetPlayer        = "get_player"
	ProcSettleUpkeep     = "settle_idle_upkeep"
	ProcGetDefinitions   = "get_definitions"

	ProcGetInventory    = "get_inventory"
	ProcGetCrew         = "get_crew"
	ProcGetBusinesses   = "get_businesses"
	ProcGetAchievements = "get_achievements"
	ProcGetTasks        = "get_tasks"

	ProcBuyItem         = "buy_item"
	ProcSellItem        = "sell_item"
	ProcAssignItem      = "assign_item"
	ProcMoveToSafe      = "move_to_safe"
	ProcReleaseFromSafe = "release_from_safe"

	ProcHireCrew = "hire_crew"
	ProcFireCrew = "fire_crew"

	ProcBuyBusiness          = "buy_business"
	ProcUpgradeBusiness      = "upgrade_business"
	ProcCollectBusiness      = "collect_business"
	ProcCollectAllBusinesses = "collect_all_businesses"

	ProcClaimAchievement = "claim_achievement"
	ProcClaimTask        = "claim_task"
	ProcClaimDaily       = "claim_daily_reward"

	ProcBankDeposit  = "bank_deposit"
	ProcBankWithdraw = "bank_withdraw"
	ProcDoJob        = "do_job"
)
