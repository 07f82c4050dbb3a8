package logging

import (
	"fmt"
	"sort"
	"sync"
)

// LoggerManager раздаёт логгеры компонентов и держит общий консольный уровень,
// который получают и уже созданные, и будущие логгеры.
type LoggerManager struct {
	mu           sync.RWMutex
	loggers      map[string]*Logger
	consoleLevel LogLevel
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = newLoggerManager()
	})
	return globalManager
}

func newLoggerManager() *LoggerManager {
	return &LoggerManager{
		loggers:      make(map[string]*Logger),
		consoleLevel: INFO,
	}
}

// GetLogger возвращает логгер компонента, создавая его с текущим уровнем менеджера
func (lm *LoggerManager) GetLogger(component string) (*Logger, error) {
	lm.mu.RLock()
	logger, ok := lm.loggers[component]
	lm.mu.RUnlock()
	if ok {
		return logger, nil
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()

	if logger, ok := lm.loggers[component]; ok {
		return logger, nil
	}

	logger, err := NewLogger(component)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger for %s: %w", component, err)
	}
	logger.setConsoleLevel(lm.consoleLevel)
	lm.loggers[component] = logger
	return logger, nil
}

// MustGetLogger возвращает логгер компонента или консольный fallback при ошибке
func (lm *LoggerManager) MustGetLogger(component string) *Logger {
	logger, err := lm.GetLogger(component)
	if err != nil {
		lm.mu.RLock()
		level := lm.consoleLevel
		lm.mu.RUnlock()

		return &Logger{
			component:       component,
			consoleLogger:   defaultLogger.consoleLogger,
			minConsoleLevel: level,
			minFileLevel:    ERROR,
		}
	}
	return logger
}

// SetConsoleLevel меняет консольный уровень всех логгеров менеджера и глобального логгера
func (lm *LoggerManager) SetConsoleLevel(level LogLevel) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lm.consoleLevel = level
	for _, logger := range lm.loggers {
		logger.setConsoleLevel(level)
	}
	defaultLogger.setConsoleLevel(level)
}

// ConsoleLevel возвращает текущий консольный уровень менеджера
func (lm *LoggerManager) ConsoleLevel() LogLevel {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	return lm.consoleLevel
}

// SetLogLevel устанавливает уровни одного компонента
func (lm *LoggerManager) SetLogLevel(component string, consoleLevel, fileLevel LogLevel) error {
	lm.mu.RLock()
	logger, ok := lm.loggers[component]
	lm.mu.RUnlock()

	if !ok {
		return fmt.Errorf("logger for component %s not found", component)
	}
	logger.SetLevels(consoleLevel, fileLevel)
	return nil
}

// ListComponents возвращает отсортированный список компонентов
func (lm *LoggerManager) ListComponents() []string {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	components := make([]string, 0, len(lm.loggers))
	for component := range lm.loggers {
		components = append(components, component)
	}
	sort.Strings(components)
	return components
}

// CloseAll закрывает логгеры компонентов
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var lastErr error
	for component, logger := range lm.loggers {
		if err := logger.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close logger for %s: %w", component, err)
		}
	}
	lm.loggers = make(map[string]*Logger)
	return lastErr
}

// ApplyLevel разбирает уровень из конфигурации (logging.level) и применяет его ко всем логгерам
func ApplyLevel(name string) error {
	level, err := ParseLevel(name)
	if err != nil {
		return err
	}
	GetLoggerManager().SetConsoleLevel(level)
	return nil
}

// GetComponentLogger возвращает логгер компонента из глобального менеджера
func GetComponentLogger(component string) *Logger {
	return GetLoggerManager().MustGetLogger(component)
}

// GetLightingLogger возвращает логгер движка освещения
func GetLightingLogger() *Logger {
	return GetComponentLogger("lighting")
}

// GetStorageLogger возвращает логгер хранилища чанков
func GetStorageLogger() *Logger {
	return GetComponentLogger("storage")
}

// GetBenchLogger возвращает логгер нагрузочного стенда
func GetBenchLogger() *Logger {
	return GetComponentLogger("bench")
}
