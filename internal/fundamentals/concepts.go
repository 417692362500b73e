package fundamentals

import (
	"github.com/wonny/factscore/internal/contracts"
)

// Chain is an ordered list of concept aliases, highest priority first. Never empty.
type Chain []string

// Concept fallback chains
// ⭐ SSOT: every concept name the scorecards consult is declared here
var (
	// balance sheet
	chainLiabilitiesAndEquity = Chain{"LiabilitiesAndStockholdersEquity"}
	chainLiabilities          = Chain{"Liabilities"}
	chainAssets               = Chain{"Assets"}
	chainDirectEquity         = Chain{
		"StockholdersEquity",
		"StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest",
		"MembersEquity",
		"PartnersCapital",
	}
	chainNoncontrollingInterest = Chain{
		"MinorityInterest",
		"StockholdersEquityAttributableToNoncontrollingInterest",
	}
	chainRedeemableNoncontrollingInterest = Chain{
		"RedeemableNoncontrollingInterestEquityCarryingAmount",
		"RedeemableNoncontrollingInterestEquityCommonCarryingAmount",
	}
	chainGoodwill    = Chain{"Goodwill"}
	chainIntangibles = Chain{
		"IntangibleAssetsNetExcludingGoodwill",
		"FiniteLivedIntangibleAssetsNet",
		"OtherIntangibleAssetsNet",
	}
	chainDebt = Chain{
		"LongTermDebt",
		"LongTermDebtAndCapitalLeaseObligationsIncludingCurrentMaturities",
		"LongTermDebtNoncurrent",
		"LongTermDebtAndCapitalLeaseObligations",
		"DebtLongtermAndShorttermCombinedAmount",
	}
	chainRetainedEarnings = Chain{"RetainedEarningsAccumulatedDeficit"}
	chainCash             = Chain{
		"CashCashEquivalentsRestrictedCashAndRestrictedCashEquivalents",
		"CashAndCashEquivalentsAtCarryingValue",
		"Cash",
	}

	// income statement
	chainNetIncome = Chain{
		"NetIncomeLoss",
		"ProfitLoss",
		"NetIncomeLossAvailableToCommonStockholdersBasic",
	}
	chainRevenue = Chain{
		"Revenues",
		"RevenueFromContractWithCustomerExcludingAssessedTax",
		"RevenueFromContractWithCustomerIncludingAssessedTax",
		"SalesRevenueNet",
		"SalesRevenueGoodsNet",
	}
	chainCostOfRevenue = Chain{
		"CostOfRevenue",
		"CostOfGoodsAndServicesSold",
		"CostOfGoodsSold",
		"CostOfServices",
	}
	chainGrossProfit     = Chain{"GrossProfit"}
	chainOperatingIncome = Chain{"OperatingIncomeLoss"}
	chainInterestExpense = Chain{
		"InterestExpense",
		"InterestExpenseNonoperating",
		"InterestExpenseDebt",
		"InterestAndDebtExpense",
	}

	// cash flow statement
	chainCashChange = Chain{
		"CashCashEquivalentsRestrictedCashAndRestrictedCashEquivalentsPeriodIncreaseDecreaseIncludingExchangeRateEffect",
		"CashAndCashEquivalentsPeriodIncreaseDecrease",
		"CashCashEquivalentsRestrictedCashAndRestrictedCashEquivalentsPeriodIncreaseDecreaseExcludingExchangeRateEffect",
		"CashPeriodIncreaseDecrease",
	}
	chainDebtProceeds = Chain{
		"ProceedsFromIssuanceOfLongTermDebt",
		"ProceedsFromIssuanceOfDebt",
		"ProceedsFromDebtNetOfIssuanceCosts",
	}
	chainDebtRepayments = Chain{
		"RepaymentsOfLongTermDebt",
		"RepaymentsOfDebt",
	}
	chainShortTermDebtNet = Chain{
		"ProceedsFromRepaymentsOfShortTermDebt",
		"ProceedsFromRepaymentsOfCommercialPaper",
	}
	chainStockProceeds = Chain{
		"ProceedsFromIssuanceOfCommonStock",
		"ProceedsFromStockOptionsExercised",
		"ProceedsFromIssuanceOrSaleOfEquity",
	}
	chainStockRepurchases = Chain{
		"PaymentsForRepurchaseOfCommonStock",
		"PaymentsForRepurchaseOfEquity",
	}
	chainPreferredProceeds = Chain{
		"ProceedsFromIssuanceOfPreferredStockAndPreferenceStock",
		"ProceedsFromIssuanceOfConvertiblePreferredStock",
	}
	chainPreferredRedemptions = Chain{
		"PaymentsForRepurchaseOfPreferredStockAndPreferenceStock",
		"PaymentsForRepurchaseOfRedeemablePreferredStock",
	}
	chainDividends = Chain{
		"PaymentsOfDividends",
		"PaymentsOfDividendsCommonStock",
		"PaymentsOfOrdinaryDividends",
		"DividendsCommonStockCash",
	}
	chainCapEx = Chain{
		"PaymentsToAcquirePropertyPlantAndEquipment",
		"PaymentsToAcquireProductiveAssets",
		"PaymentsForCapitalImprovements",
	}

	// non-cash add-backs
	chainAmortization = Chain{
		"AmortizationOfIntangibleAssets",
		"FiniteLivedIntangibleAssetsAmortizationExpense",
	}
	chainDepletion = Chain{
		"Depletion",
		"DepletionOfOilAndGasProperties",
	}
	chainDDA = Chain{
		"DepreciationDepletionAndAmortization",
		"DepreciationAmortizationAndAccretionNet",
		"DepreciationAndAmortization",
	}
	chainDepreciation = Chain{
		"Depreciation",
		"DepreciationNonproduction",
	}
	chainDeferredTax = Chain{
		"DeferredIncomeTaxExpenseBenefit",
		"DeferredIncomeTaxesAndTaxCredits",
	}
	chainDeferredTaxFederal = Chain{"DeferredFederalIncomeTaxExpenseBenefit"}
	chainDeferredTaxForeign = Chain{"DeferredForeignIncomeTaxExpenseBenefit"}
	chainDeferredTaxState   = Chain{"DeferredStateAndLocalIncomeTaxExpenseBenefit"}
	chainShareBasedComp     = Chain{
		"ShareBasedCompensation",
		"AllocatedShareBasedCompensationExpense",
	}
	chainImpairment = Chain{
		"AssetImpairmentCharges",
		"GoodwillAndIntangibleAssetImpairment",
		"GoodwillImpairmentLoss",
	}
	chainOtherNoncashExpense = Chain{"OtherNoncashExpense"}

	// working capital
	chainWorkingCapitalAggregate = Chain{"IncreaseDecreaseInOperatingCapital"}
	chainReceivablesCombined     = Chain{
		"IncreaseDecreaseInAccountsAndOtherReceivables",
		"IncreaseDecreaseInReceivables",
	}
	chainAccountsReceivable      = Chain{"IncreaseDecreaseInAccountsReceivable"}
	chainOtherReceivables        = Chain{"IncreaseDecreaseInOtherReceivables"}
	chainInventories             = Chain{"IncreaseDecreaseInInventories"}
	chainPayablesAccruedCombined = Chain{"IncreaseDecreaseInAccountsPayableAndAccruedLiabilities"}
	chainAccountsPayable         = Chain{"IncreaseDecreaseInAccountsPayable"}
	chainAccruedLiabilities      = Chain{"IncreaseDecreaseInAccruedLiabilities"}
	chainPrepaidDeferred         = Chain{
		"IncreaseDecreaseInPrepaidDeferredExpenseAndOtherAssets",
		"IncreaseDecreaseInPrepaidExpense",
	}
	chainDeferredRevenue               = Chain{"IncreaseDecreaseInDeferredRevenue"}
	chainContractLiability             = Chain{"IncreaseDecreaseInContractWithCustomerLiability"}
	chainOtherOperatingAssets          = Chain{"IncreaseDecreaseInOtherOperatingAssets"}
	chainOtherCurrentAssets            = Chain{"IncreaseDecreaseInOtherCurrentAssets"}
	chainOtherNoncurrentAssets         = Chain{"IncreaseDecreaseInOtherNoncurrentAssets"}
	chainOtherOperatingLiabilities     = Chain{"IncreaseDecreaseInOtherOperatingLiabilities"}
	chainOtherCurrentLiabilities       = Chain{"IncreaseDecreaseInOtherCurrentLiabilities"}
	chainOtherNoncurrentLiabilities    = Chain{"IncreaseDecreaseInOtherNoncurrentLiabilities"}
	chainAccruedIncomeTaxesPayable     = Chain{"IncreaseDecreaseInAccruedIncomeTaxesPayable"}
)

// defaultBalanceSigns is the taxonomy balance of each working-capital concept, used
// when the fact source did not carry one. Increases in operating assets are credits
// (they consume cash), increases in operating liabilities are debits.
var defaultBalanceSigns = map[string]contracts.BalanceSign{
	"IncreaseDecreaseInOperatingCapital":                     contracts.BalanceCredit,
	"IncreaseDecreaseInAccountsAndOtherReceivables":          contracts.BalanceCredit,
	"IncreaseDecreaseInReceivables":                          contracts.BalanceCredit,
	"IncreaseDecreaseInAccountsReceivable":                   contracts.BalanceCredit,
	"IncreaseDecreaseInOtherReceivables":                     contracts.BalanceCredit,
	"IncreaseDecreaseInInventories":                          contracts.BalanceCredit,
	"IncreaseDecreaseInPrepaidDeferredExpenseAndOtherAssets": contracts.BalanceCredit,
	"IncreaseDecreaseInPrepaidExpense":                       contracts.BalanceCredit,
	"IncreaseDecreaseInOtherOperatingAssets":                 contracts.BalanceCredit,
	"IncreaseDecreaseInOtherCurrentAssets":                   contracts.BalanceCredit,
	"IncreaseDecreaseInOtherNoncurrentAssets":                contracts.BalanceCredit,
	"IncreaseDecreaseInAccountsPayableAndAccruedLiabilities": contracts.BalanceDebit,
	"IncreaseDecreaseInAccountsPayable":                      contracts.BalanceDebit,
	"IncreaseDecreaseInAccruedLiabilities":                   contracts.BalanceDebit,
	"IncreaseDecreaseInDeferredRevenue":                      contracts.BalanceDebit,
	"IncreaseDecreaseInContractWithCustomerLiability":        contracts.BalanceDebit,
	"IncreaseDecreaseInOtherOperatingLiabilities":            contracts.BalanceDebit,
	"IncreaseDecreaseInOtherCurrentLiabilities":              contracts.BalanceDebit,
	"IncreaseDecreaseInOtherNoncurrentLiabilities":           contracts.BalanceDebit,
	"IncreaseDecreaseInAccruedIncomeTaxesPayable":            contracts.BalanceDebit,
}

// valueChains is every chain the value engine may consult
func valueChains() []Chain {
	return []Chain{
		chainLiabilitiesAndEquity, chainLiabilities, chainAssets, chainDirectEquity,
		chainNoncontrollingInterest, chainRedeemableNoncontrollingInterest,
		chainGoodwill, chainIntangibles, chainDebt, chainRetainedEarnings, chainCash,
		chainNetIncome, chainCashChange,
		chainDebtProceeds, chainDebtRepayments, chainShortTermDebtNet,
		chainStockProceeds, chainStockRepurchases,
		chainPreferredProceeds, chainPreferredRedemptions,
		chainDividends, chainCapEx,
		chainAmortization, chainDepletion, chainDDA, chainDepreciation,
		chainDeferredTax, chainDeferredTaxFederal, chainDeferredTaxForeign, chainDeferredTaxState,
		chainShareBasedComp, chainImpairment, chainOtherNoncashExpense,
		chainWorkingCapitalAggregate, chainReceivablesCombined, chainAccountsReceivable,
		chainOtherReceivables, chainInventories, chainPayablesAccruedCombined,
		chainAccountsPayable, chainAccruedLiabilities, chainPrepaidDeferred,
		chainDeferredRevenue, chainContractLiability, chainOtherOperatingAssets,
		chainOtherCurrentAssets, chainOtherNoncurrentAssets, chainOtherOperatingLiabilities,
		chainOtherCurrentLiabilities, chainOtherNoncurrentLiabilities,
		chainAccruedIncomeTaxesPayable,
	}
}

// moatChains adds the margin, revenue and interest chains on top of valueChains
func moatChains() []Chain {
	return append(valueChains(),
		chainRevenue, chainCostOfRevenue, chainGrossProfit,
		chainOperatingIncome, chainInterestExpense,
	)
}

// ValueConcepts returns the concept names the value scorecard needs from storage
func ValueConcepts() []string {
	return flatten(valueChains())
}

// MoatConcepts returns the concept names the moat scorecard needs from storage.
// It is a superset of ValueConcepts.
func MoatConcepts() []string {
	return flatten(moatChains())
}

func flatten(chains []Chain) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 128)
	for _, chain := range chains {
		for _, name := range chain {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
