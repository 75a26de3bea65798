// Package store - явный модуль управления клиентским состоянием:
// get/set/subscribe-операции с синхронным пересчётом производных
// представлений. Все мутации идут через именованные операции; коллекции
// наружу не отдаются по ссылке - единственный писатель гарантирован
// дисциплиной API плюс мьютексом.
package store

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/departures-microservice/internal/domain"
	"github.com/departures-microservice/internal/pkg/filter"
)

// JourneyForm - состояние формы поиска поездок.
type JourneyForm struct {
	From         string
	To           string
	When         time.Time
	IsArrival    bool
	Products     []string
	MaxTransfers *int
}

// Snapshot - консистентный срез состояния для подписчиков: производные
// представления в нём всегда пересчитаны относительно входов.
type Snapshot struct {
	VisibleDepartures []domain.Departure
	ProductFilters    []string
	PlatformFilters   []string
	FilteredJourneys  []domain.JourneyOption
	JourneyForm       JourneyForm
	IsSearching       bool
	IsDataLoading     bool
	LastUpdate        time.Time
}

// Store - владелец авторитетного клиентского состояния.
type Store struct {
	mu     sync.Mutex
	logger *zap.Logger

	// Табло отправлений: коллекция с ключом tripId.
	departures      map[string]domain.Departure
	productFilters  filter.Set
	platformFilters filter.Set
	visible         []domain.Departure

	// Поиск поездок.
	journeyForm           JourneyForm
	journeyResults        []domain.JourneyOption
	journeyPagination     *domain.JourneyPagination
	journeyError          string
	journeyProductFilters filter.Set
	maxTransfers          *int
	filteredJourneys      []domain.JourneyOption

	// Флаги занятости UI.
	isSearching          bool
	isLoadingSuggestions bool
	isDataLoading        bool
	manualRefreshing     bool
	autoRefreshing       bool
	lastUpdate           time.Time
	lastStation          string

	// Автодополнение: защита от устаревших ответов по номеру запроса.
	suggestionSeq uint64
	suggestions   []domain.Station

	subscribers map[int]func(Snapshot)
	nextSubID   int

	// Очередь доставки срезов: единственный горутина-диспетчер раздаёт их
	// строго в порядке мутаций.
	notifyMu   sync.Mutex
	notifyCond *sync.Cond
	pending    []notification
	closed     bool
}

// notification - один срез вместе со списком подписчиков на момент мутации.
type notification struct {
	snapshot Snapshot
	subs     []func(Snapshot)
}

// New - создание нового Store
func New(logger *zap.Logger) *Store {
	s := &Store{
		logger:                logger,
		departures:            make(map[string]domain.Departure),
		productFilters:        filter.Clear(),
		platformFilters:       filter.Clear(),
		visible:               []domain.Departure{},
		journeyResults:        []domain.JourneyOption{},
		journeyProductFilters: filter.Clear(),
		filteredJourneys:      []domain.JourneyOption{},
		journeyForm:           defaultJourneyForm(),
		suggestions:           []domain.Station{},
		subscribers:           make(map[int]func(Snapshot)),
		lastUpdate:            time.Now(),
	}
	s.notifyCond = sync.NewCond(&s.notifyMu)
	go s.dispatchLoop()
	return s
}

func defaultJourneyForm() JourneyForm {
	return JourneyForm{
		When:     time.Now(),
		Products: []string{},
	}
}

// Subscribe регистрирует подписчика; возвращённая функция отписывает.
// Подписчик получает уже пересчитанный срез после каждой мутации; срезы
// доставляются в порядке мутаций, последний доставленный соответствует
// последней мутации.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// --- Отправления ---

// SetDepartures заменяет коллекцию целиком.
func (s *Store) SetDepartures(departures []domain.Departure) {
	s.mu.Lock()
	s.departures = make(map[string]domain.Departure, len(departures))
	for _, dep := range departures {
		s.departures[dep.TripID] = dep
	}
	s.lastUpdate = time.Now()
	s.recomputeVisibleLocked()
	s.notifyLocked()
	s.mu.Unlock()
}

// AddDepartures вливает новые записи в коллекцию, перезаписывая по
// tripId - инкрементальная загрузка не сбрасывает уже показанные строки.
func (s *Store) AddDepartures(departures []domain.Departure) {
	s.mu.Lock()
	for _, dep := range departures {
		s.departures[dep.TripID] = dep
	}
	s.lastUpdate = time.Now()
	s.recomputeVisibleLocked()
	s.notifyLocked()
	s.mu.Unlock()
}

// VisibleDepartures возвращает копию производного отфильтрованного
// представления.
func (s *Store) VisibleDepartures() []domain.Departure {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Departure, len(s.visible))
	copy(out, s.visible)
	return out
}

// ToggleProductFilter переключает продуктовый фильтр: есть - убрать,
// нет - добавить. Повторное переключение возвращает исходное состояние.
func (s *Store) ToggleProductFilter(product string) {
	s.mu.Lock()
	s.productFilters = filter.Toggle(s.productFilters, product)
	s.recomputeVisibleLocked()
	s.notifyLocked()
	s.mu.Unlock()
}

// TogglePlatformFilter переключает фильтр платформы.
func (s *Store) TogglePlatformFilter(platform string) {
	s.mu.Lock()
	s.platformFilters = filter.Toggle(s.platformFilters, platform)
	s.recomputeVisibleLocked()
	s.notifyLocked()
	s.mu.Unlock()
}

// ClearFilters сбрасывает оба фильтра табло в пустое множество
// ("показывать всё").
func (s *Store) ClearFilters() {
	s.mu.Lock()
	s.productFilters = filter.Clear()
	s.platformFilters = filter.Clear()
	s.recomputeVisibleLocked()
	s.notifyLocked()
	s.mu.Unlock()
}

// ProductFilters возвращает активные продуктовые фильтры.
func (s *Store) ProductFilters() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productFilters.Values()
}

// PlatformFilters возвращает активные фильтры платформ.
func (s *Store) PlatformFilters() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.platformFilters.Values()
}

// recomputeVisibleLocked пересчитывает производное представление в той же
// критической секции, что и мутация входов: наблюдатель не может увидеть
// обновлённые входы с устаревшей производной.
func (s *Store) recomputeVisibleLocked() {
	all := make([]domain.Departure, 0, len(s.departures))
	for _, dep := range s.departures {
		all = append(all, dep)
	}
	// Порядок вставки в map не определён; для стабильного отображения
	// сортируем по времени, затем по tripId.
	sort.Slice(all, func(i, j int) bool {
		if !all[i].When.Equal(all[j].When) {
			return all[i].When.Before(all[j].When)
		}
		return all[i].TripID < all[j].TripID
	})

	visible := filter.Departures(all, s.productFilters)
	visible = filter.DeparturesByPlatform(visible, s.platformFilters)
	s.visible = visible
}

// --- Поездки ---

// SetJourneyResult инициализирует журнальное состояние из ответа сервера;
// nil сбрасывает всё, включая форму.
func (s *Store) SetJourneyResult(result *domain.JourneySearchResult) {
	s.mu.Lock()
	defer func() {
		s.recomputeJourneysLocked()
		s.notifyLocked()
		s.mu.Unlock()
	}()

	if result == nil {
		s.journeyResults = []domain.JourneyOption{}
		s.journeyPagination = nil
		s.journeyError = ""
		s.journeyForm = defaultJourneyForm()
		s.journeyProductFilters = filter.Clear()
		s.maxTransfers = nil
		s.isSearching = false
		return
	}

	s.journeyResults = result.Journeys
	pagination := result.Pagination
	s.journeyPagination = &pagination
	s.journeyError = result.Error

	products := filter.NewSet(result.Query.Products)
	s.journeyForm = JourneyForm{
		From:         result.Query.From,
		To:           result.Query.To,
		When:         result.Query.When,
		IsArrival:    result.Query.IsArrival,
		Products:     products.Values(),
		MaxTransfers: result.Query.MaxTransfers,
	}
	s.journeyProductFilters = products
	s.maxTransfers = result.Query.MaxTransfers
	s.isSearching = false
}

// UpdateForm частично обновляет форму поиска поездок.
func (s *Store) UpdateForm(update func(form *JourneyForm)) {
	s.mu.Lock()
	update(&s.journeyForm)
	s.journeyForm.Products = filter.NewSet(s.journeyForm.Products).Values()
	s.notifyLocked()
	s.mu.Unlock()
}

// SwapStations меняет местами станции отправления и назначения.
func (s *Store) SwapStations() {
	s.mu.Lock()
	s.journeyForm.From, s.journeyForm.To = s.journeyForm.To, s.journeyForm.From
	s.notifyLocked()
	s.mu.Unlock()
}

// ResetForm возвращает форму и фильтры поездок к значениям по умолчанию.
func (s *Store) ResetForm() {
	s.mu.Lock()
	s.journeyForm = defaultJourneyForm()
	s.journeyProductFilters = filter.Clear()
	s.maxTransfers = nil
	s.recomputeJourneysLocked()
	s.notifyLocked()
	s.mu.Unlock()
}

// ToggleJourneyProductFilter переключает продуктовый фильтр поездок и
// синхронизирует список продуктов формы.
func (s *Store) ToggleJourneyProductFilter(product string) {
	if product == "" {
		return
	}
	s.mu.Lock()
	s.journeyProductFilters = filter.Toggle(s.journeyProductFilters, product)
	s.journeyForm.Products = s.journeyProductFilters.Values()
	s.recomputeJourneysLocked()
	s.notifyLocked()
	s.mu.Unlock()
}

// SetMaxTransfers устанавливает порог пересадок; отрицательное значение
// снимает ограничение.
func (s *Store) SetMaxTransfers(value *int) {
	s.mu.Lock()
	if value != nil && *value >= 0 {
		v := *value
		s.maxTransfers = &v
	} else {
		s.maxTransfers = nil
	}
	s.journeyForm.MaxTransfers = s.maxTransfers
	s.recomputeJourneysLocked()
	s.notifyLocked()
	s.mu.Unlock()
}

// ClearJourneyFilters сбрасывает фильтры поездок.
func (s *Store) ClearJourneyFilters() {
	s.mu.Lock()
	s.journeyProductFilters = filter.Clear()
	s.maxTransfers = nil
	s.journeyForm.Products = []string{}
	s.journeyForm.MaxTransfers = nil
	s.recomputeJourneysLocked()
	s.notifyLocked()
	s.mu.Unlock()
}

// FilteredJourneys возвращает копию производного представления поездок.
func (s *Store) FilteredJourneys() []domain.JourneyOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.JourneyOption, len(s.filteredJourneys))
	copy(out, s.filteredJourneys)
	return out
}

// JourneyForm возвращает текущее состояние формы.
func (s *Store) JourneyForm() JourneyForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.journeyForm
}

func (s *Store) recomputeJourneysLocked() {
	results := filter.Journeys(s.journeyResults, s.journeyProductFilters)
	results = filter.JourneysByTransfers(results, s.maxTransfers)
	s.filteredJourneys = results
}

// --- Флаги и обновление ---

// SetSearching выставляет флаг активного поиска.
func (s *Store) SetSearching(v bool) {
	s.mu.Lock()
	s.isSearching = v
	s.notifyLocked()
	s.mu.Unlock()
}

// IsSearching сообщает, идёт ли поиск.
func (s *Store) IsSearching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isSearching
}

// IsDataLoading сообщает, загружаются ли данные.
func (s *Store) IsDataLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isDataLoading
}

// ClearDataLoading снимает флаг загрузки данных.
func (s *Store) ClearDataLoading() {
	s.mu.Lock()
	s.isDataLoading = false
	s.notifyLocked()
	s.mu.Unlock()
}

// LastUpdate возвращает время последнего успешного обновления.
func (s *Store) LastUpdate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdate
}

// SetLastStation запоминает последнюю искомую станцию.
func (s *Store) SetLastStation(station string) {
	s.mu.Lock()
	s.lastStation = station
	s.mu.Unlock()
}

// LastStation возвращает последнюю искомую станцию.
func (s *Store) LastStation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStation
}

// BeginRefresh пытается начать обновление. Возвращает false, если
// обновление нужно пропустить: автоматическое обновление не накладывается
// на идущее ручное (и на другое автоматическое) - оно именно
// пропускается, без очереди и без ошибки.
func (s *Store) BeginRefresh(manual bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if manual {
		if s.manualRefreshing {
			return false
		}
		s.manualRefreshing = true
	} else {
		if s.manualRefreshing || s.autoRefreshing {
			return false
		}
		s.autoRefreshing = true
	}
	s.isDataLoading = true
	return true
}

// EndRefresh завершает обновление, начатое BeginRefresh с тем же manual.
// Время последнего обновления фиксируют SetDepartures/AddDepartures при
// фактическом поступлении данных, а не завершение попытки.
func (s *Store) EndRefresh(manual bool) {
	s.mu.Lock()
	if manual {
		s.manualRefreshing = false
	} else {
		s.autoRefreshing = false
	}
	s.isDataLoading = false
	s.notifyLocked()
	s.mu.Unlock()
}

// IsRefreshing сообщает, идёт ли какое-либо обновление.
func (s *Store) IsRefreshing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manualRefreshing || s.autoRefreshing
}

// --- Автодополнение ---

// BeginSuggestionRequest выдаёт номер нового запроса автодополнения.
// Номера монотонно растут; применяется только ответ самого свежего.
func (s *Store) BeginSuggestionRequest() uint64 {
	s.mu.Lock()
	s.suggestionSeq++
	seq := s.suggestionSeq
	s.isLoadingSuggestions = true
	s.mu.Unlock()
	return seq
}

// ApplySuggestions применяет результат запроса seq. Устаревший ответ
// (пришедший после выдачи более нового номера) отбрасывается независимо
// от порядка завершения - выигрывает последний выданный запрос.
func (s *Store) ApplySuggestions(seq uint64, stations []domain.Station) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.suggestionSeq {
		s.logger.Debug("Discarding stale suggestion response",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", s.suggestionSeq))
		return false
	}

	s.suggestions = stations
	s.isLoadingSuggestions = false
	return true
}

// CancelSuggestions инвалидирует все выданные запросы автодополнения и
// очищает список.
func (s *Store) CancelSuggestions() {
	s.mu.Lock()
	s.suggestionSeq++
	s.suggestions = []domain.Station{}
	s.isLoadingSuggestions = false
	s.mu.Unlock()
}

// Suggestions возвращает текущие подсказки.
func (s *Store) Suggestions() []domain.Station {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Station, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

// IsLoadingSuggestions сообщает, идёт ли загрузка подсказок.
func (s *Store) IsLoadingSuggestions() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoadingSuggestions
}

// notifyLocked ставит срез в очередь доставки. Срез собирается под
// мьютексом состояния; коллбеки вызывает горутина-диспетчер вне обоих
// мьютексов, строго в порядке постановки - подписчик никогда не увидит
// более старый срез после более нового.
func (s *Store) notifyLocked() {
	if len(s.subscribers) == 0 {
		return
	}

	snapshot := Snapshot{
		VisibleDepartures: append([]domain.Departure(nil), s.visible...),
		ProductFilters:    s.productFilters.Values(),
		PlatformFilters:   s.platformFilters.Values(),
		FilteredJourneys:  append([]domain.JourneyOption(nil), s.filteredJourneys...),
		JourneyForm:       s.journeyForm,
		IsSearching:       s.isSearching,
		IsDataLoading:     s.isDataLoading,
		LastUpdate:        s.lastUpdate,
	}
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}

	s.notifyMu.Lock()
	s.pending = append(s.pending, notification{snapshot: snapshot, subs: subs})
	s.notifyMu.Unlock()
	s.notifyCond.Signal()
}

// dispatchLoop доставляет накопленные срезы в порядке постановки.
// Очередь не ограничена, поэтому мутации никогда не блокируются на
// медленном подписчике.
func (s *Store) dispatchLoop() {
	for {
		s.notifyMu.Lock()
		for len(s.pending) == 0 && !s.closed {
			s.notifyCond.Wait()
		}
		if len(s.pending) == 0 && s.closed {
			s.notifyMu.Unlock()
			return
		}
		batch := s.pending
		s.pending = nil
		s.notifyMu.Unlock()

		for _, n := range batch {
			for _, fn := range n.subs {
				fn(n.snapshot)
			}
		}
	}
}

// Close останавливает диспетчер доставки после опустошения очереди.
// Дальнейшие мутации допустимы, но подписчики уведомлений не получат.
func (s *Store) Close() {
	s.notifyMu.Lock()
	s.closed = true
	s.notifyMu.Unlock()
	s.notifyCond.Broadcast()
}
