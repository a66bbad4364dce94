package advisor

import (
	"fmt"
	"strings"

	"github.com/jask/finadvisor/internal/finance"
)

// Strategy renders a deterministic advisory without any I/O.
type Strategy func(txs []finance.Transaction, summary finance.Summary) string

var strategies = map[Kind]Strategy{
	KindAnalysis:   analysisFallback,
	KindPrediction: staticText(predictionText),
	KindTips:       staticText(tipsText),
}

// Fallback returns the local advisory for kind. It never fails and never returns
// empty text. Unknown kinds get the tips text.
func Fallback(kind Kind, txs []finance.Transaction, summary finance.Summary) string {
	s, ok := strategies[kind]
	if !ok {
		s = strategies[KindTips]
	}
	return s(txs, summary)
}

func staticText(text string) Strategy {
	return func([]finance.Transaction, finance.Summary) string { return text }
}

const topExpenseCount = 3

func analysisFallback(txs []finance.Transaction, summary finance.Summary) string {
	if len(txs) == 0 {
		return onboardingText
	}
	expenses, _ := categoryMaps(txs, summary)
	balance := summary.Totals.Balance

	var b strings.Builder
	b.WriteString("📈 **Análisis de tus Finanzas**\n\n")
	if balance.IsPositive() {
		fmt.Fprintf(&b, "✅ **Excelente trabajo!** Tienes un balance positivo de $%s\n", finance.FormatAmount(balance))
	} else {
		fmt.Fprintf(&b, "⚠️ **Atención:** Tu balance es negativo ($%s). Revisa tus gastos.\n", finance.FormatAmount(balance.Abs()))
	}

	top := finance.SortedCategories(expenses)
	if len(top) > topExpenseCount {
		top = top[:topExpenseCount]
	}
	if len(top) > 0 {
		b.WriteString("\n📉 **Tus mayores gastos:**\n")
		for _, c := range top {
			fmt.Fprintf(&b, "- %s: $%s\n", c.Category, finance.FormatAmount(c.Amount))
		}
	}

	b.WriteString("\n💡 **Recomendaciones:**\n")
	b.WriteString("• Revisa tus gastos en categorías no esenciales\n")
	b.WriteString("• Establece metas de ahorro mensuales\n")
	b.WriteString("• Considera crear un fondo de emergencia\n")
	return b.String()
}

const onboardingText = `📊 **Análisis Financiero Básico**

Hola! Veo que estás comenzando con tu gestión financiera. Aquí tienes algunos consejos iniciales:

🔍 **Para empezar:**
1. Registra todos tus ingresos y gastos diariamente
2. Clasifica cada transacción en categorías específicas
3. Establece un presupuesto mensual realista

💡 **Próximos pasos:**
- Una vez tengas más datos, podré darte análisis más detallados
- Revisa tus gastos recurrentes (suscripciones, servicios, etc.)
- Identifica oportunidades de ahorro

¡Sigue registrando tus transacciones para obtener insights más personalizados!`

const predictionText = `🔮 **Predicción Financiera**

Basado en patrones comunes, aquí hay algunas proyecciones:

📅 **Próximo mes:**
• Gastos esenciales: Mantendrán tendencia similar
• Gastos variables: Dependerán de tus hábitos
• Oportunidades de ahorro: Revisa suscripciones no utilizadas

💡 **Consejos proactivos:**
1. Revisa tus gastos recurrentes mensuales
2. Planifica compras importantes con anticipación
3. Establece un monto objetivo de ahorro`

const tipsText = `💡 **Consejos Financieros Prácticos**

1. **Regla 50/30/20:**
   • 50% para necesidades esenciales
   • 30% para gustos personales
   • 20% para ahorro e inversión

2. **Fondo de emergencia:**
   • Objetivo: 3-6 meses de gastos
   • Comienza con un monto pequeño y constante

3. **Revisa suscripciones:**
   • Cancela servicios que no uses regularmente
   • Busca planes más económicos

4. **Planifica compras:**
   • Evita compras impulsivas
   • Investiga antes de compras grandes

¡Pequeños cambios generan grandes resultados a largo plazo! 🚀`
