package lighting

import "fmt"

// programmerError сообщает о неверном вызове движка. В сборке с тегом
// lightdebug паникует, в обычной сборке пишет ERROR и вызов ничего не делает.
func (e *Engine) programmerError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if debugAssertions {
		panic("lighting: " + msg)
	}
	e.log.Error("❌ %s", msg)
}
